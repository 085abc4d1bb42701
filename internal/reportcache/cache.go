package reportcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached fetch outcome. Exactly one of RawReport and FetchError
// is meaningful: a successful fetch stores the raw report text, a failed one
// stores the error message so the recording stays renderable.
type Entry struct {
	Name       string
	RawReport  string
	FetchError string
	CachedAt   time.Time
}

// Failed reports whether this entry records a fetch failure.
func (e Entry) Failed() bool { return e.FetchError != "" }

// Cache is a SQLite-backed report cache keyed by recording name.
type Cache struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Cache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("report cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS reports (
        name        TEXT PRIMARY KEY,
        raw_report  TEXT,
        fetch_error TEXT,
        cached_at   TEXT NOT NULL
    )`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the on-disk location backing the cache.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Put stores a successfully fetched raw report for a recording, replacing any
// previous entry.
func (c *Cache) Put(ctx context.Context, name, rawReport string) error {
	return c.upsert(ctx, name, rawReport, "")
}

// PutError stores a fetch failure for a recording, replacing any previous
// entry.
func (c *Cache) PutError(ctx context.Context, name, message string) error {
	if strings.TrimSpace(message) == "" {
		message = "unknown error"
	}
	return c.upsert(ctx, name, "", message)
}

func (c *Cache) upsert(ctx context.Context, name, rawReport, fetchError string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("recording name cannot be empty")
	}
	_, err := c.db.ExecContext(
		ctx,
		`INSERT INTO reports (name, raw_report, fetch_error, cached_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET
             raw_report = excluded.raw_report,
             fetch_error = excluded.fetch_error,
             cached_at = excluded.cached_at`,
		name,
		nullableString(rawReport),
		nullableString(fetchError),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store report for %s: %w", name, err)
	}
	return nil
}

// Get returns the cached entry for a recording, if any.
func (c *Cache) Get(ctx context.Context, name string) (Entry, bool, error) {
	row := c.db.QueryRowContext(
		ctx,
		`SELECT name, raw_report, fetch_error, cached_at FROM reports WHERE name = ?`,
		name,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("load report for %s: %w", name, err)
	}
	return entry, true, nil
}

// All returns every cached entry, ordered by recording name.
func (c *Cache) All(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(
		ctx,
		`SELECT name, raw_report, fetch_error, cached_at FROM reports ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list cached reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cached report: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Remove deletes the cached entry for a recording. Removing an absent entry
// is not an error.
func (c *Cache) Remove(ctx context.Context, name string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM reports WHERE name = ?`, name); err != nil {
		return fmt.Errorf("remove report for %s: %w", name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var entry Entry
	var rawReport, fetchError sql.NullString
	var cachedAt string
	if err := row.Scan(&entry.Name, &rawReport, &fetchError, &cachedAt); err != nil {
		return Entry{}, err
	}
	entry.RawReport = rawReport.String
	entry.FetchError = fetchError.String
	if parsed, err := time.Parse(time.RFC3339Nano, cachedAt); err == nil {
		entry.CachedAt = parsed
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
