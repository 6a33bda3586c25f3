package portfolio

import (
	"context"
	"strings"
	"time"

	"forgefolio/internal/analytics"
	"forgefolio/internal/llm"
	"forgefolio/internal/shared/metrics"
	"forgefolio/internal/shared/telemetry"
)

// Tracker records usage. Failures never fail a generation.
type Tracker interface {
	TrackGeneration(ctx context.Context, templateID, profession string, features []string) error
	TrackFeature(ctx context.Context, feature string) error
}

// Service runs one generation: prompt, completion, formatting.
type Service struct {
	LLM      llm.Client
	Catalog  *Catalog
	Tracker  Tracker
	Demo     bool
	Provider string
	Model    string
	Now      func() time.Time
}

func NewService(client llm.Client, catalog *Catalog, tracker Tracker) *Service {
	return &Service{LLM: client, Catalog: catalog, Tracker: tracker}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Generate produces sectioned content for a validated request. Completion
// failures come back as *llm.UpstreamError.
func (s *Service) Generate(ctx context.Context, req PortfolioRequest) (GeneratedContent, error) {
	tmpl := s.Catalog.Resolve(req.TemplateID, req.Profession)
	startedAt := s.now()
	metrics.IncGenerationStarted()

	var raw string
	if s.Demo {
		raw = demoText(req)
	} else {
		var err error
		raw, err = s.LLM.Complete(ctx, BuildPrompt(req, tmpl))
		if err != nil {
			metrics.IncGenerationFailed()
			metrics.IncUpstreamFailure(string(llm.KindOf(err)))
			metrics.ObserveGenerationDurationMs(durationMs(startedAt, s.now()))
			return GeneratedContent{}, err
		}
	}

	content := FormatResponse(raw)
	content.Template = tmpl.ID
	content.Education = req.Education
	if !req.Contact.IsZero() {
		contact := req.Contact
		content.Contact = &contact
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(durationMs(startedAt, s.now()))
	telemetry.Info("portfolio.generated", map[string]any{
		"template":    tmpl.ID,
		"demo":        s.Demo,
		"provider":    s.Provider,
		"model":       s.Model,
		"raw_len":     len(raw),
		"empty_parts": emptySections(content),
	})

	s.track(ctx, req, tmpl)
	return content, nil
}

// TrackSamplesViewed records that the sample profiles were requested.
func (s *Service) TrackSamplesViewed(ctx context.Context) {
	if s.Tracker == nil {
		return
	}
	if err := s.Tracker.TrackFeature(ctx, analytics.FeatureSampleProfiles); err != nil {
		telemetry.Warn("analytics.track_failed", map[string]any{"feature": analytics.FeatureSampleProfiles, "error": err})
	}
}

// TrackImport records a profile document import.
func (s *Service) TrackImport(ctx context.Context) {
	metrics.IncProfileImport()
	if s.Tracker == nil {
		return
	}
	if err := s.Tracker.TrackFeature(ctx, analytics.FeatureResumeImport); err != nil {
		telemetry.Warn("analytics.track_failed", map[string]any{"feature": analytics.FeatureResumeImport, "error": err})
	}
}

func (s *Service) track(ctx context.Context, req PortfolioRequest, tmpl Template) {
	if s.Tracker == nil {
		return
	}
	if err := s.Tracker.TrackGeneration(ctx, tmpl.ID, req.Profession, usedFeatures(req)); err != nil {
		telemetry.Warn("analytics.track_failed", map[string]any{"template": tmpl.ID, "error": err})
	}
}

func usedFeatures(req PortfolioRequest) []string {
	var features []string
	if id := strings.TrimSpace(req.TemplateID); id != "" && id != DefaultTemplateID {
		features = append(features, analytics.FeatureTemplateSelection)
	}
	if len(req.Skills) > 0 || len(req.Projects) > 0 {
		features = append(features, analytics.FeatureCustomContent)
	}
	return features
}

func emptySections(c GeneratedContent) int {
	n := 0
	for _, v := range []string{c.Summary, c.Skills, c.Experience, c.Projects, c.Conclusion} {
		if v == "" {
			n++
		}
	}
	return n
}

func durationMs(start, end time.Time) float64 {
	return float64(end.Sub(start)) / float64(time.Millisecond)
}
