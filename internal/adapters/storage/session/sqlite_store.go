package session

import (
	"context"
	"database/sql"
	"time"

	domain "mergington/internal/domain/session"
)

// SQLiteStore implements Store using SQLite. The session table holds at
// most one row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the persisted session.
// PRE: none
// POST: Returns the stored session, or the anonymous session when no row
// exists
func (s *SQLiteStore) Get(ctx context.Context) (domain.Session, error) {
	query := "SELECT token, username FROM session WHERE id = 1"
	row := s.db.QueryRowContext(ctx, query)

	var entity domain.Session
	err := row.Scan(&entity.Token, &entity.Username)
	if err == sql.ErrNoRows {
		return domain.Anonymous(), nil
	}
	if err != nil {
		return domain.Session{}, err
	}
	return entity, nil
}

// Save persists the session.
// PRE: s holds a non-empty token
// POST: The single session row is replaced
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Session) error {
	query := `INSERT INTO session (id, token, username, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token=excluded.token, username=excluded.username, updated_at=excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query,
		entity.Token,
		entity.Username,
		time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// Clear removes the persisted session.
// PRE: none
// POST: No session row remains
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = 1")
	return err
}
