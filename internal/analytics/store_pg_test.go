package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreRecordGenerationIncrementsCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	at := time.Date(2026, time.April, 2, 15, 4, 5, 0, time.UTC)
	event := Event{
		ID:         "0b7e6c1e-6a9d-4f8e-9d55-0f2f8d1c0a11",
		TemplateID: "tech_modern",
		Profession: "backend engineer",
		Features:   []string{FeatureCustomContent},
		At:         at,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO generation_events").
		WithArgs(event.ID, event.TemplateID, event.Profession, "custom_content", at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	for _, inc := range [][2]string{
		{"total", "generations"},
		{"template", "tech_modern"},
		{"profession", "backend engineer"},
		{"day", "2026-04-02"},
		{"feature", "custom_content"},
	} {
		mock.ExpectExec("INSERT INTO analytics_counters").
			WithArgs(inc[0], inc[1]).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("UPDATE analytics_meta").
		WithArgs(at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewPGStore(db)
	if err := store.RecordGeneration(context.Background(), event); err != nil {
		t.Fatalf("RecordGeneration: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreRecordGenerationRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO generation_events").
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	store := NewPGStore(db)
	err = store.RecordGeneration(context.Background(), Event{ID: "id", TemplateID: "t", Profession: "p", At: time.Now()})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	started := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	updated := started.Add(48 * time.Hour)
	mock.ExpectQuery("SELECT started_at, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"started_at", "updated_at"}).AddRow(started, updated))
	mock.ExpectQuery("SELECT dimension, key, count").
		WillReturnRows(sqlmock.NewRows([]string{"dimension", "key", "count"}).
			AddRow("total", "generations", int64(4)).
			AddRow("template", "tech_modern", int64(3)).
			AddRow("template", "creative_artist", int64(1)).
			AddRow("profession", "designer", int64(4)).
			AddRow("day", "2026-01-02", int64(4)).
			AddRow("feature", "sample_profiles", int64(7)))

	stats, err := NewPGStore(db).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalGenerations != 4 {
		t.Fatalf("TotalGenerations = %d, want 4", stats.TotalGenerations)
	}
	if stats.TemplatesUsed["tech_modern"] != 3 || stats.TemplatesUsed["creative_artist"] != 1 {
		t.Fatalf("unexpected templates: %v", stats.TemplatesUsed)
	}
	if stats.FeaturesUsed["sample_profiles"] != 7 {
		t.Fatalf("unexpected features: %v", stats.FeaturesUsed)
	}
	if _, ok := stats.FeaturesUsed[FeatureResumeImport]; !ok {
		t.Fatalf("known features should be present with zero counts")
	}
	if !stats.StartDate.Equal(started) || !stats.LastUpdated.Equal(updated) {
		t.Fatalf("unexpected dates: %v %v", stats.StartDate, stats.LastUpdated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
