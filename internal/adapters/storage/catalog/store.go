package catalog

import (
	"context"
	"time"

	"mergington/internal/domain/activity"
)

// Store defines the interface for the durable catalog snapshot: the last
// successfully fetched catalog, kept so a restart can show stale data
// instead of an empty directory.
type Store interface {
	// Load returns the persisted catalog and when it was fetched. An
	// empty catalog and zero time mean no snapshot exists.
	Load(ctx context.Context) (activity.Catalog, time.Time, error)
	// Replace swaps the snapshot for a new catalog in one transaction.
	Replace(ctx context.Context, c activity.Catalog, fetchedAt time.Time) error
}
