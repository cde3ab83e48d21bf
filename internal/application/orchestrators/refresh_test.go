package orchestrators_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mergington/internal/application/orchestrators"
	"mergington/internal/domain/activity"
)

type recordingSnapshots struct {
	mu       sync.Mutex
	replaced int
	err      error
}

func (r *recordingSnapshots) Replace(ctx context.Context, c activity.Catalog, fetchedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaced++
	return r.err
}

func TestExecuteRefreshSuccess(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	srv := &fakeAPI{catalog: activity.Catalog{
		"Chess Club": {MaxParticipants: 12, Participants: []string{"a@x.com"}},
	}}
	snaps := &recordingSnapshots{}

	err := orchestrators.ExecuteRefresh(context.Background(), orchestrators.RefreshDeps{
		API:       srv,
		State:     st,
		Snapshots: snaps,
	})
	if err != nil {
		t.Fatalf("ExecuteRefresh: %v", err)
	}

	snap := st.Snapshot()
	if !snap.Loaded || snap.Stale {
		t.Errorf("loaded=%v stale=%v, want loaded and fresh", snap.Loaded, snap.Stale)
	}
	if len(snap.Catalog) != 1 {
		t.Errorf("catalog has %d entries, want 1", len(snap.Catalog))
	}
	if snaps.replaced != 1 {
		t.Errorf("snapshot persisted %d times, want 1", snaps.replaced)
	}
}

func TestExecuteRefreshFailureRetainsCatalog(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	st.ReplaceCatalog(activity.Catalog{"Art Club": {MaxParticipants: 15}}, time.Now())

	srv := &fakeAPI{fetchErr: errors.New("connection refused")}

	err := orchestrators.ExecuteRefresh(context.Background(), orchestrators.RefreshDeps{
		API:   srv,
		State: st,
	})
	if err == nil {
		t.Fatal("expected an error from a failed fetch")
	}

	snap := st.Snapshot()
	if !snap.Stale {
		t.Error("failed refresh did not mark the catalog stale")
	}
	if len(snap.Catalog) != 1 {
		t.Errorf("failed refresh dropped the previous catalog: %d entries", len(snap.Catalog))
	}
}

func TestExecuteRefreshPersistFailureIsNonFatal(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	srv := &fakeAPI{catalog: activity.Catalog{"Chess Club": {MaxParticipants: 12}}}
	snaps := &recordingSnapshots{err: errors.New("disk full")}

	err := orchestrators.ExecuteRefresh(context.Background(), orchestrators.RefreshDeps{
		API:       srv,
		State:     st,
		Snapshots: snaps,
	})
	if err != nil {
		t.Fatalf("persist failure surfaced as a refresh error: %v", err)
	}
	if st.Snapshot().Stale {
		t.Error("persist failure marked the in-memory catalog stale")
	}
}
