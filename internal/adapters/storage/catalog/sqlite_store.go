package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mergington/internal/domain/activity"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new catalog snapshot store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load retrieves the persisted catalog snapshot.
// PRE: none
// POST: Returns the stored catalog and fetch time, or an empty catalog and
// zero time when no snapshot exists
func (s *SQLiteStore) Load(ctx context.Context) (activity.Catalog, time.Time, error) {
	var fetchedAt time.Time
	var fetchedAtStr string
	err := s.db.QueryRowContext(ctx, "SELECT fetched_at FROM snapshot_meta WHERE id = 1").Scan(&fetchedAtStr)
	if err == sql.ErrNoRows {
		return activity.Catalog{}, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAtStr)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("cannot parse fetched_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, schedule, category, created_date, max_participants, participants FROM catalog_snapshot")
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	catalog := activity.Catalog{}
	for rows.Next() {
		var name, participantsJSON string
		var category, createdDate sql.NullString
		var a activity.Activity
		if err := rows.Scan(&name, &a.Description, &a.Schedule, &category, &createdDate, &a.MaxParticipants, &participantsJSON); err != nil {
			return nil, time.Time{}, err
		}
		a.Category = category.String
		a.CreatedDate = createdDate.String
		if err := json.Unmarshal([]byte(participantsJSON), &a.Participants); err != nil {
			return nil, time.Time{}, fmt.Errorf("cannot decode participants for %q: %w", name, err)
		}
		catalog[name] = a
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return catalog, fetchedAt, nil
}

// Replace swaps the snapshot wholesale.
// PRE: c is a complete catalog
// POST: The snapshot holds exactly the entries of c; partial writes are
// rolled back
func (s *SQLiteStore) Replace(ctx context.Context, c activity.Catalog, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_snapshot"); err != nil {
		return err
	}

	for name, a := range c {
		participantsJSON, err := json.Marshal(a.Participants)
		if err != nil {
			return fmt.Errorf("cannot encode participants for %q: %w", name, err)
		}
		var category, createdDate interface{}
		if a.Category != "" {
			category = a.Category
		}
		if a.CreatedDate != "" {
			createdDate = a.CreatedDate
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO catalog_snapshot (name, description, schedule, category, created_date, max_participants, participants) VALUES (?, ?, ?, ?, ?, ?, ?)",
			name, a.Description, a.Schedule, category, createdDate, a.MaxParticipants, string(participantsJSON),
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshot_meta (id, fetched_at) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET fetched_at=excluded.fetched_at",
		fetchedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
