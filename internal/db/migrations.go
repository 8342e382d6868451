package db

import (
	"database/sql"
	"fmt"
)

// schema is applied in order. PRAGMA user_version records how many steps a
// database has seen, so each step runs exactly once. Append only.
var schema = []string{
	`CREATE TABLE snapshots (
		key        TEXT     PRIMARY KEY,
		value      BLOB     NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`ALTER TABLE snapshots ADD COLUMN version INTEGER NOT NULL DEFAULT 0`,
}

// SchemaVersion returns the number of schema steps applied to d.
func SchemaVersion(d *sql.DB) (int, error) {
	var v int
	if err := d.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func migrate(d *sql.DB) error {
	current, err := SchemaVersion(d)
	if err != nil {
		return err
	}
	if current > len(schema) {
		return fmt.Errorf("schema version %d is newer than this build understands (%d)", current, len(schema))
	}

	for v := current; v < len(schema); v++ {
		if err := step(d, v+1, schema[v]); err != nil {
			return err
		}
	}
	return nil
}

// step runs one statement and records the new version in the same transaction.
func step(d *sql.DB, version int, stmt string) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("step %d: %w", version, err)
	}
	if _, err := tx.Exec(stmt); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("step %d: %w", version, err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("step %d: recording version: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("step %d: commit: %w", version, err)
	}
	return nil
}
