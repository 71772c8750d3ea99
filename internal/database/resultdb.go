package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/webharvest/internal/model"
)

// ErrNotFound is returned by Open when the file must exist but does not.
var ErrNotFound = errors.New("database not found")

// ResultDB is a SQLite file holding scrape results.
type ResultDB struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the file and its directory when missing.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         false,
	}
}

// Open opens or creates the database file at path.
func Open(path string, opts Options) (*ResultDB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{db: db, dbPath: path, now: time.Now}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return rdb, nil
}

// Path returns the database file path.
func (rdb *ResultDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

func (rdb *ResultDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scraping_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		data TEXT NOT NULL,
		captured_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scraping_source ON scraping_data(source);
	CREATE INDEX IF NOT EXISTS idx_scraping_category ON scraping_data(category);
	`
	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// Row is one stored field of one record.
type Row struct {
	ID         int64
	Source     string
	Category   string
	Data       string
	CapturedAt time.Time
}

// InsertRecord stores every non-empty field of rec as one row, in field
// order, within a single transaction. It returns the number of rows written.
func (rdb *ResultDB) InsertRecord(ctx context.Context, source string, rec *model.Record) (int, error) {
	if rec == nil {
		return 0, nil
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	capturedAt := rdb.now().UTC().Format(time.RFC3339)
	query := `INSERT INTO scraping_data (source, category, data, captured_at) VALUES (?, ?, ?, ?)`

	n := 0
	for _, field := range model.FieldOrder {
		value, ok := rec.Field(field)
		if !ok {
			continue
		}
		data, err := json.Marshal(value)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s: %w", field, err)
		}
		if _, err := tx.ExecContext(ctx, query, source, field, string(data), capturedAt); err != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", field, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return n, nil
}

// InsertError stores a failed scrape as a single "error" row holding the
// JSON-encoded reason.
func (rdb *ResultDB) InsertError(ctx context.Context, source, reason string) (int, error) {
	data, err := json.Marshal(reason)
	if err != nil {
		return 0, fmt.Errorf("failed to encode error: %w", err)
	}
	query := `INSERT INTO scraping_data (source, category, data, captured_at) VALUES (?, ?, ?, ?)`
	if _, err := rdb.db.ExecContext(ctx, query, source, "error", string(data), rdb.now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("failed to insert error: %w", err)
	}
	return 1, nil
}

// Rows returns the rows stored for source in insertion order.
// An empty source returns every row.
func (rdb *ResultDB) Rows(ctx context.Context, source string) ([]Row, error) {
	query := `SELECT id, source, category, data, captured_at FROM scraping_data`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY id`

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var capturedAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.Category, &r.Data, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.CapturedAt = parseTimestamp(capturedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Sources returns the distinct sources in the database, sorted.
func (rdb *ResultDB) Sources(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, `SELECT DISTINCT source FROM scraping_data ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// timestampFormats are the layouts SQLite may hand back for DATETIME columns.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTimestamp returns the zero time when no layout matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
