package database

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/webharvest/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *ResultDB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "output.sqlite"), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return db
}

func sampleRecord() *model.Record {
	r := model.NewRecord()
	r.Links = []string{"/a", "/b"}
	r.Emails = []string{"info@example.com"}
	r.Metadata.Add("title", "Home")
	r.Tables = []model.Table{{Index: 0, Rows: [][]string{{"a", "b"}}}}
	return r
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates file in new directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "out.sqlite")
		db, err := Open(path, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != path {
			t.Errorf("expected path %s, got %s", path, db.Path())
		}
	})

	t.Run("missing file without create fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.sqlite")
		_, err := Open(path, Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("WAL mode", func(t *testing.T) {
		t.Parallel()

		db, err := Open(filepath.Join(t.TempDir(), "wal.sqlite"), Options{CreateIfNotExists: true, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
	})
}

// TestInsertRecord tests that each non-empty field becomes one row.
func TestInsertRecord(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	n, err := db.InsertRecord(ctx, "https://example.com", sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 rows, got %d", n)
	}

	rows, err := db.Rows(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantCategories := []string{model.FieldLinks, model.FieldEmails, model.FieldMetadata, model.FieldTables}
	if len(rows) != len(wantCategories) {
		t.Fatalf("expected %d rows, got %d", len(wantCategories), len(rows))
	}
	for i, row := range rows {
		if row.Category != wantCategories[i] {
			t.Errorf("row %d: expected category %s, got %s", i, wantCategories[i], row.Category)
		}
		if row.CapturedAt.IsZero() {
			t.Errorf("row %d: expected capture time", i)
		}
	}

	var links []string
	if err := json.Unmarshal([]byte(rows[0].Data), &links); err != nil {
		t.Fatalf("failed to decode links: %v", err)
	}
	if len(links) != 2 || links[0] != "/a" {
		t.Errorf("unexpected links: %v", links)
	}
	if rows[2].Data != `{"title":"Home"}` {
		t.Errorf("unexpected metadata encoding: %s", rows[2].Data)
	}
}

// TestInsertRecordAppends tests that repeated inserts accumulate across sources.
func TestInsertRecordAppends(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, source := range []string{"https://b.example.com", "https://a.example.com", "https://b.example.com"} {
		if _, err := db.InsertRecord(ctx, source, sampleRecord()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := db.Rows(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 12 {
		t.Errorf("expected 12 rows, got %d", len(all))
	}

	sources, err := db.Sources(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 || sources[0] != "https://a.example.com" {
		t.Errorf("unexpected sources: %v", sources)
	}
}

// TestInsertEmptyRecord tests that empty and nil records write nothing.
func TestInsertEmptyRecord(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, rec := range []*model.Record{nil, model.NewRecord()} {
		n, err := db.InsertRecord(ctx, "https://example.com", rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected no rows, got %d", n)
		}
	}
}

// TestParseTimestamp tests the supported timestamp layouts.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		zero  bool
	}{
		{"2026-01-02T03:04:05Z", false},
		{"2026-01-02 03:04:05", false},
		{"not a time", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.input); got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v", tt.input, got)
			}
		})
	}
}

// TestInsertError tests that a failure is stored as one error row.
func TestInsertError(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	n, err := db.InsertError(ctx, "https://down.example.com", "status 503")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
	rows, err := db.Rows(ctx, "https://down.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Category != "error" || rows[0].Data != `"status 503"` {
		t.Errorf("unexpected rows: %+v", rows)
	}
}
