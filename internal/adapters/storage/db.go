package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the local database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL DEFAULT '',
		username TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalog_snapshot (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		schedule TEXT NOT NULL DEFAULT '',
		category TEXT,
		created_date TEXT,
		max_participants INTEGER NOT NULL DEFAULT 0,
		participants TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS snapshot_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		fetched_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
