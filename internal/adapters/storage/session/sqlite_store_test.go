package session_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"mergington/internal/adapters/storage"
	sessionStore "mergington/internal/adapters/storage/session"
	domain "mergington/internal/domain/session"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestGetWithoutSession(t *testing.T) {
	store := sessionStore.NewSQLiteStore(newTestDB(t))

	sess, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.IsAuthenticated() {
		t.Errorf("empty store returned an authenticated session: %+v", sess)
	}
}

func TestSaveAndGet(t *testing.T) {
	store := sessionStore.NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	want := domain.Session{Token: "tok-abc", Username: "teacher"}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	store := sessionStore.NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	if err := store.Save(ctx, domain.Session{Token: "tok-old", Username: "old"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, domain.Session{Token: "tok-new", Username: "new"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "tok-new" || got.Username != "new" {
		t.Errorf("Get = %+v, want the replacement session", got)
	}
}

func TestClear(t *testing.T) {
	store := sessionStore.NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	if err := store.Save(ctx, domain.Session{Token: "tok-abc", Username: "teacher"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IsAuthenticated() {
		t.Errorf("session survived Clear: %+v", got)
	}

	// Clearing an empty store is a no-op, not an error.
	if err := store.Clear(ctx); err != nil {
		t.Errorf("Clear on empty store: %v", err)
	}
}
