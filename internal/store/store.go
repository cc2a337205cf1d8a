// Package store implements the local replica on SQLite.
//
// The store keeps two kinds of rows: local rows (lists, tasks) that the user
// edits offline, and shadow rows (remote_lists, remote_tasks) that link a local
// row to its remote counterpart for one account. Deleting a local row turns
// its shadow into a tombstone that the next sync pushes upstream.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when a name matches more than one list.
var ErrAmbiguous = errors.New("ambiguous")

// Store is the SQLite-backed local replica.
type Store struct {
	db  *sql.DB
	now func() time.Time
	loc *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp local edits.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone local due dates are read back in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps per-connection pragmas in effect and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// stamp returns the current store time in Unix milliseconds.
func (s *Store) stamp() int64 {
	return s.now().UnixMilli()
}

// queryAll runs query and scans every row before returning, so callers
// never hold an open cursor.
func queryAll[T any](ctx context.Context, db *sql.DB, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
