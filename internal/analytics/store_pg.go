package analytics

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const (
	dimTotal      = "total"
	dimTemplate   = "template"
	dimProfession = "profession"
	dimDay        = "day"
	dimFeature    = "feature"

	totalKey = "generations"
)

type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed analytics store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) RecordGeneration(ctx context.Context, event Event) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO generation_events (id, template_id, profession, features, created_at)
VALUES ($1, $2, $3, $4, $5)`,
		event.ID,
		event.TemplateID,
		event.Profession,
		strings.Join(event.Features, ","),
		event.At.UTC(),
	); err != nil {
		return err
	}

	increments := [][2]string{
		{dimTotal, totalKey},
		{dimTemplate, event.TemplateID},
		{dimProfession, event.Profession},
		{dimDay, dayKey(event.At)},
	}
	for _, f := range event.Features {
		increments = append(increments, [2]string{dimFeature, f})
	}
	for _, inc := range increments {
		if err = incrementCounter(ctx, tx, inc[0], inc[1]); err != nil {
			return err
		}
	}
	if err = touchMeta(ctx, tx, event.At); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PGStore) RecordFeature(ctx context.Context, feature string, at time.Time) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = incrementCounter(ctx, tx, dimFeature, feature); err != nil {
		return err
	}
	if err = touchMeta(ctx, tx, at); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PGStore) Stats(ctx context.Context) (Stats, error) {
	var started, updated time.Time
	err := s.DB.QueryRowContext(ctx, `
SELECT started_at, updated_at
FROM analytics_meta
WHERE id = 1`).Scan(&started, &updated)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, err
	}
	if errors.Is(err, sql.ErrNoRows) {
		started = time.Now().UTC()
		updated = started
	}

	stats := newStats(started.UTC())
	stats.LastUpdated = updated.UTC()

	rows, err := s.DB.QueryContext(ctx, `
SELECT dimension, key, count
FROM analytics_counters`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var dimension, key string
		var count int64
		if err := rows.Scan(&dimension, &key, &count); err != nil {
			return Stats{}, err
		}
		switch dimension {
		case dimTotal:
			stats.TotalGenerations = count
		case dimTemplate:
			stats.TemplatesUsed[key] = count
		case dimProfession:
			stats.Professions[key] = count
		case dimDay:
			stats.DailyStats[key] = count
		case dimFeature:
			stats.FeaturesUsed[key] = count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func incrementCounter(ctx context.Context, tx *sql.Tx, dimension, key string) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO analytics_counters (dimension, key, count)
VALUES ($1, $2, 1)
ON CONFLICT (dimension, key) DO UPDATE SET count = analytics_counters.count + 1`, dimension, key)
	return err
}

func touchMeta(ctx context.Context, tx *sql.Tx, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
UPDATE analytics_meta SET updated_at = $1 WHERE id = 1`, at.UTC())
	return err
}
