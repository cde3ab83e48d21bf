package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mergington/internal/application/state"
	"mergington/internal/domain/activity"
)

// ActivityFetcher fetches the full activity catalog from the server.
type ActivityFetcher interface {
	FetchActivities(ctx context.Context) (activity.Catalog, error)
}

// SnapshotStore persists the fetched catalog for stale display after a
// restart.
type SnapshotStore interface {
	Replace(ctx context.Context, c activity.Catalog, fetchedAt time.Time) error
}

// RefreshDeps holds dependencies for Refresh.
type RefreshDeps struct {
	API       ActivityFetcher
	State     *state.Store
	Snapshots SnapshotStore // optional; nil disables persistence
}

// ExecuteRefresh fetches the catalog and replaces the cached one wholesale.
// PRE: Valid dependencies
// POST: On success the catalog is replaced atomically; on failure the
// previous catalog is retained and marked stale
// INVARIANT: No reader ever observes a partially written catalog
func ExecuteRefresh(ctx context.Context, deps RefreshDeps) error {
	catalog, err := deps.API.FetchActivities(ctx)
	if err != nil {
		deps.State.MarkStale()
		slog.Warn("refresh_failed", "error", err.Error())
		return fmt.Errorf("refresh activities: %w", err)
	}

	fetchedAt := time.Now()
	deps.State.ReplaceCatalog(catalog, fetchedAt)

	if deps.Snapshots != nil {
		if err := deps.Snapshots.Replace(ctx, catalog, fetchedAt); err != nil {
			// Persistence is best-effort; the in-memory catalog is current.
			slog.Warn("snapshot_persist_failed", "error", err.Error())
		}
	}

	slog.Info("refresh_succeeded", "activities", len(catalog))
	return nil
}
