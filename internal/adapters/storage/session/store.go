package session

import (
	"context"

	domain "mergington/internal/domain/session"
)

// Store defines the interface for durable session persistence. A single
// logical session record survives restarts; clearing it returns the client
// to the anonymous state.
type Store interface {
	// Get returns the persisted session, or the anonymous session when
	// none is stored.
	Get(ctx context.Context) (domain.Session, error)
	// Save persists the session, replacing any previous one.
	Save(ctx context.Context, s domain.Session) error
	// Clear removes the persisted session.
	Clear(ctx context.Context) error
}
