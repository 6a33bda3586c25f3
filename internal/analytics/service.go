package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTemplateLabel   = "tech_modern"
	defaultProfessionLabel = "Software Developer"
	defaultFeatureLabel    = "template_selection"

	maxProfessionKeyRunes = 64
)

// Service records and summarizes usage. It is safe for concurrent use when
// its Store is.
type Service struct {
	Store Store
	Now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// TrackGeneration records one generation. Professions are normalized to
// lower case with collapsed whitespace and cut to a bounded length, so
// "Engineer" and " engineer " count together.
func (s *Service) TrackGeneration(ctx context.Context, templateID, profession string, features []string) error {
	if s == nil || s.Store == nil {
		return errors.New("analytics service not configured")
	}
	event := Event{
		ID:         uuid.NewString(),
		TemplateID: strings.TrimSpace(templateID),
		Profession: professionKey(profession),
		Features:   features,
		At:         s.now(),
	}
	if event.TemplateID == "" {
		event.TemplateID = defaultTemplateLabel
	}
	return s.Store.RecordGeneration(ctx, event)
}

// TrackFeature records a single feature use outside of generation.
func (s *Service) TrackFeature(ctx context.Context, feature string) error {
	if s == nil || s.Store == nil {
		return errors.New("analytics service not configured")
	}
	return s.Store.RecordFeature(ctx, feature, s.now())
}

// Stats returns the full aggregate.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s == nil || s.Store == nil {
		return Stats{}, errors.New("analytics service not configured")
	}
	stats, err := s.Store.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.MostPopularTemplate = mostPopular(stats.TemplatesUsed)
	stats.MostPopularProfession = mostPopular(stats.Professions)
	return stats, nil
}

// DemoStats summarizes Stats for display, substituting labels when nothing has
// been recorded yet.
func (s *Service) DemoStats(ctx context.Context) (DemoStats, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return DemoStats{}, err
	}
	out := DemoStats{
		TotalPortfoliosGenerated: stats.TotalGenerations,
		MostPopularTemplate:      stats.MostPopularTemplate,
		MostPopularProfession:    stats.MostPopularProfession,
		TemplatesUsed:            len(stats.TemplatesUsed),
		ProfessionsServed:        len(stats.Professions),
		FeaturesMostUsed:         mostPopular(stats.FeaturesUsed),
		UptimeDays:               int(s.now().Sub(stats.StartDate).Hours()/24) + 1,
	}
	for _, n := range stats.DailyStats {
		out.DailyGenerations += n
	}
	if out.MostPopularTemplate == "" {
		out.MostPopularTemplate = defaultTemplateLabel
	}
	if out.MostPopularProfession == "" {
		out.MostPopularProfession = defaultProfessionLabel
	}
	if out.FeaturesMostUsed == "" {
		out.FeaturesMostUsed = defaultFeatureLabel
	}
	if out.UptimeDays < 1 {
		out.UptimeDays = 1
	}
	return out, nil
}

func professionKey(profession string) string {
	key := strings.ToLower(strings.Join(strings.Fields(profession), " "))
	if runes := []rune(key); len(runes) > maxProfessionKeyRunes {
		key = strings.TrimSpace(string(runes[:maxProfessionKeyRunes]))
	}
	return key
}
