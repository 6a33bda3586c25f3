package analytics

import "time"

// Feature names counted in Stats.FeaturesUsed.
const (
	FeatureSampleProfiles    = "sample_profiles"
	FeatureTemplateSelection = "template_selection"
	FeatureCustomContent     = "custom_content"
	FeatureResumeImport      = "resume_import"
)

// KnownFeatures is the fixed set of feature counters reported even when zero.
var KnownFeatures = []string{
	FeatureSampleProfiles,
	FeatureTemplateSelection,
	FeatureCustomContent,
	FeatureResumeImport,
}

// Event records one successful portfolio generation.
type Event struct {
	ID         string
	TemplateID string
	Profession string
	Features   []string
	At         time.Time
}

// Stats aggregates all recorded usage.
type Stats struct {
	TotalGenerations      int64            `json:"total_generations"`
	MostPopularTemplate   string           `json:"most_popular_template,omitempty"`
	MostPopularProfession string           `json:"most_popular_profession,omitempty"`
	TemplatesUsed         map[string]int64 `json:"templates_used"`
	Professions           map[string]int64 `json:"professions"`
	FeaturesUsed          map[string]int64 `json:"features_used"`
	DailyStats            map[string]int64 `json:"daily_stats"`
	StartDate             time.Time        `json:"start_date"`
	LastUpdated           time.Time        `json:"last_updated"`
}

// DemoStats is the presentation-friendly summary served at /analytics.
type DemoStats struct {
	TotalPortfoliosGenerated int64  `json:"total_portfolios_generated"`
	MostPopularTemplate      string `json:"most_popular_template"`
	MostPopularProfession    string `json:"most_popular_profession"`
	TemplatesUsed            int    `json:"templates_used"`
	ProfessionsServed        int    `json:"professions_served"`
	FeaturesMostUsed         string `json:"features_most_used"`
	DailyGenerations         int64  `json:"daily_generations"`
	UptimeDays               int    `json:"uptime_days"`
}

func newStats(start time.Time) Stats {
	s := Stats{
		TemplatesUsed: map[string]int64{},
		Professions:   map[string]int64{},
		FeaturesUsed:  map[string]int64{},
		DailyStats:    map[string]int64{},
		StartDate:     start,
		LastUpdated:   start,
	}
	for _, f := range KnownFeatures {
		s.FeaturesUsed[f] = 0
	}
	return s
}

// dayKey formats t as the daily_stats bucket key.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// mostPopular returns the key with the highest count; ties go to the smaller key.
func mostPopular(counts map[string]int64) string {
	best := ""
	var bestCount int64
	for k, v := range counts {
		if v <= 0 {
			continue
		}
		if v > bestCount || (v == bestCount && k < best) {
			best, bestCount = k, v
		}
	}
	return best
}
