package orchestrators_test

import (
	"context"
	"errors"
	"testing"

	"mergington/internal/application/orchestrators"
	"mergington/internal/domain/activity"
	"mergington/internal/domain/session"
)

func TestExecuteLogout(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	st.SetSession(session.Session{Token: "tok-abc", Username: "teacher"})

	srv := &fakeAPI{catalog: activity.Catalog{}}
	sessions := &fakeSessionStore{sess: session.Session{Token: "tok-abc", Username: "teacher"}}

	orchestrators.ExecuteLogout(context.Background(), orchestrators.LogoutDeps{
		API:      srv,
		Sessions: sessions,
		State:    st,
		Refresh:  orchestrators.RefreshDeps{API: srv, State: st},
	})

	if srv.logoutCalls != 1 {
		t.Errorf("server notified %d times, want 1", srv.logoutCalls)
	}
	if sessions.stored().IsAuthenticated() {
		t.Error("durable session not cleared")
	}
	if st.Snapshot().Session.IsAuthenticated() {
		t.Error("in-memory session not cleared")
	}
	if srv.fetchCalls != 1 {
		t.Errorf("refresh fetched %d times, want 1", srv.fetchCalls)
	}
}

func TestExecuteLogoutClearsSessionWhenServerUnreachable(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	st.SetSession(session.Session{Token: "tok-abc", Username: "teacher"})

	srv := &fakeAPI{
		logoutErr: errors.New("connection refused"),
		fetchErr:  errors.New("connection refused"),
	}
	sessions := &fakeSessionStore{sess: session.Session{Token: "tok-abc", Username: "teacher"}}

	orchestrators.ExecuteLogout(context.Background(), orchestrators.LogoutDeps{
		API:      srv,
		Sessions: sessions,
		State:    st,
		Refresh:  orchestrators.RefreshDeps{API: srv, State: st},
	})

	// The local session is cleared even when the server cannot be told.
	if sessions.stored().IsAuthenticated() {
		t.Error("durable session survived an unreachable server")
	}
	if st.Snapshot().Session.IsAuthenticated() {
		t.Error("in-memory session survived an unreachable server")
	}
}

func TestExecuteLogoutAnonymousSkipsServerCall(t *testing.T) {
	st := newTestState()
	defer st.Stop()

	srv := &fakeAPI{catalog: activity.Catalog{}}
	sessions := &fakeSessionStore{}

	orchestrators.ExecuteLogout(context.Background(), orchestrators.LogoutDeps{
		API:      srv,
		Sessions: sessions,
		State:    st,
		Refresh:  orchestrators.RefreshDeps{API: srv, State: st},
	})

	if srv.logoutCalls != 0 {
		t.Error("anonymous logout still notified the server")
	}
}
