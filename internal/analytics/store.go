package analytics

import (
	"context"
	"time"
)

// Store persists usage counters.
type Store interface {
	RecordGeneration(ctx context.Context, event Event) error
	RecordFeature(ctx context.Context, feature string, at time.Time) error
	Stats(ctx context.Context) (Stats, error)
}
