// Package store persists the burger catalog and generated background images
// in SQLite.
//
// Open applies the same pragmas to every database it opens:
//
//	foreign_keys = ON
//	journal_mode = WAL
//	busy_timeout = 10000
//	synchronous  = NORMAL
//
// and then creates the schema if it does not exist.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS episodes (
	id     INTEGER PRIMARY KEY,
	name   TEXT    NOT NULL,
	season INTEGER NOT NULL,
	number INTEGER NOT NULL,
	UNIQUE (season, number)
);

CREATE TABLE IF NOT EXISTS burgers (
	id                     INTEGER PRIMARY KEY,
	name                   TEXT    NOT NULL,
	explanation            TEXT,
	additional_information TEXT,
	episode_id             INTEGER NOT NULL REFERENCES episodes(id) ON DELETE CASCADE,
	UNIQUE (episode_id, name)
);

CREATE TABLE IF NOT EXISTS images (
	id          INTEGER PRIMARY KEY,
	path        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	archived_at TEXT,
	burger_id   INTEGER REFERENCES burgers(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_images_path ON images(path);
`

// Store wraps the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for a
// throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	// Pragmas are per connection and every ":memory:" connection is its own
	// database, so keep a single connection.
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: exec schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
