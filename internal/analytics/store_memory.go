package analytics

import (
	"context"
	"sync"
	"time"
)

// MaxProfessionKeys caps the distinct professions a MemoryStore tracks. Later
// professions are counted under OtherProfession.
const MaxProfessionKeys = 1000

// OtherProfession collects professions past MaxProfessionKeys.
const OtherProfession = "other"

type MemoryStore struct {
	mu    sync.RWMutex
	stats Stats
}

func NewMemoryStore(start time.Time) *MemoryStore {
	return &MemoryStore{stats: newStats(start.UTC())}
}

func (s *MemoryStore) RecordGeneration(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalGenerations++
	s.stats.TemplatesUsed[event.TemplateID]++
	profession := event.Profession
	if _, seen := s.stats.Professions[profession]; !seen && len(s.stats.Professions) >= MaxProfessionKeys {
		profession = OtherProfession
	}
	s.stats.Professions[profession]++
	s.stats.DailyStats[dayKey(event.At)]++
	for _, f := range event.Features {
		s.stats.FeaturesUsed[f]++
	}
	s.stats.LastUpdated = event.At.UTC()
	return nil
}

func (s *MemoryStore) RecordFeature(ctx context.Context, feature string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.FeaturesUsed[feature]++
	s.stats.LastUpdated = at.UTC()
	return nil
}

func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.stats
	out.TemplatesUsed = copyCounts(s.stats.TemplatesUsed)
	out.Professions = copyCounts(s.stats.Professions)
	out.FeaturesUsed = copyCounts(s.stats.FeaturesUsed)
	out.DailyStats = copyCounts(s.stats.DailyStats)
	return out, nil
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
