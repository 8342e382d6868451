// Package db opens the SQLite database behind the snapshot store.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Memory opens a private in-memory database. Useful in tests.
const Memory = ":memory:"

// DefaultPath returns ~/.config/hv/homeview.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hv", "homeview.db"), nil
}

// Open opens or creates the database at path and brings its schema up to
// date. Parent directories are created as needed.
func Open(path string) (*sql.DB, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	d, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: snapshot writes are serialized by their callers anyway,
	// and an in-memory database only exists on the connection that made it.
	d.SetMaxOpenConns(1)

	if err := d.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("connecting to %s: %w", path, err), d.Close())
	}
	if err := migrate(d); err != nil {
		return nil, errors.Join(fmt.Errorf("migrating %s: %w", path, err), d.Close())
	}

	return d, nil
}

// dsn sets the connection pragmas through go-sqlite3's URI parameters so
// they apply to every connection the pool opens.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", "5000")
	return "file:" + path + "?" + q.Encode()
}
