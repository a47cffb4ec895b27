// Package sqlite provides a kvstore.Store kept in a single SQLite table.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
)

type sqliteStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at path with a kv table.
func New(path string) (kvstore.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps read-after-write ordering trivial
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(key, def string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&val)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return def, nil
	case err != nil:
		return def, mapErr(fmt.Errorf("select %q: %w", key, err))
	}
	return val, nil
}

func (s *sqliteStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return mapErr(fmt.Errorf("upsert %q: %w", key, err))
	}
	return nil
}

func (s *sqliteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return mapErr(fmt.Errorf("delete %q: %w", key, err))
	}
	return nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func mapErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "sql: database is closed") {
		return fmt.Errorf("%w: %v", kvstore.ErrClosed, err)
	}
	return err
}

var _ kvstore.Store = (*sqliteStore)(nil)
