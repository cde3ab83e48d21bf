package orchestrators_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"mergington/internal/adapters/api"
	"mergington/internal/application/orchestrators"
	"mergington/internal/domain/activity"
)

func TestExecuteLoginRequiresCredentials(t *testing.T) {
	tests := []struct {
		name  string
		input orchestrators.LoginInput
	}{
		{name: "missing username", input: orchestrators.LoginInput{Password: "secret"}},
		{name: "missing password", input: orchestrators.LoginInput{Username: "teacher"}},
		{name: "both missing", input: orchestrators.LoginInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState()
			defer st.Stop()
			srv := &fakeAPI{}
			sessions := &fakeSessionStore{}

			_, err := orchestrators.ExecuteLogin(context.Background(), tt.input, orchestrators.LoginDeps{
				API:      srv,
				Sessions: sessions,
				State:    st,
				Refresh:  orchestrators.RefreshDeps{API: srv, State: st},
			})
			if !errors.Is(err, orchestrators.ErrCredentialsRequired) {
				t.Fatalf("error = %v, want ErrCredentialsRequired", err)
			}
		})
	}
}

func TestExecuteLoginSuccess(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	srv := &fakeAPI{
		loginResult: api.LoginResult{Token: "tok-abc", Username: "teacher"},
		catalog:     activity.Catalog{"Chess Club": {MaxParticipants: 12}},
	}
	sessions := &fakeSessionStore{}

	result, err := orchestrators.ExecuteLogin(context.Background(), orchestrators.LoginInput{
		Username: "teacher",
		Password: "secret",
	}, orchestrators.LoginDeps{
		API:      srv,
		Sessions: sessions,
		State:    st,
		Refresh:  orchestrators.RefreshDeps{API: srv, State: st},
	})
	if err != nil {
		t.Fatalf("ExecuteLogin: %v", err)
	}
	if result.Username != "teacher" {
		t.Errorf("Username = %q", result.Username)
	}

	// Session is durable and in memory.
	if stored := sessions.stored(); stored.Token != "tok-abc" || stored.Username != "teacher" {
		t.Errorf("stored session = %+v", stored)
	}
	snap := st.Snapshot()
	if !snap.Session.IsAuthenticated() || snap.Session.Username != "teacher" {
		t.Errorf("in-memory session = %+v", snap.Session)
	}
	// Login triggers a catalog refresh so affordances appear immediately.
	if srv.fetchCalls != 1 {
		t.Errorf("refresh fetched %d times, want 1", srv.fetchCalls)
	}
}

func TestExecuteLoginRejectedKeepsAnonymous(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	srv := &fakeAPI{
		loginErr: &api.ServerError{StatusCode: http.StatusUnauthorized, Detail: "Invalid username or password"},
	}
	sessions := &fakeSessionStore{}

	_, err := orchestrators.ExecuteLogin(context.Background(), orchestrators.LoginInput{
		Username: "teacher",
		Password: "wrong",
	}, orchestrators.LoginDeps{
		API:      srv,
		Sessions: sessions,
		State:    st,
		Refresh:  orchestrators.RefreshDeps{API: srv, State: st},
	})
	if err == nil {
		t.Fatal("expected an error from a rejected login")
	}
	// The server's rejection detail is recoverable for the user message.
	se, ok := api.AsServerError(err)
	if !ok {
		t.Fatalf("error %v does not unwrap to a *ServerError", err)
	}
	if se.Detail != "Invalid username or password" {
		t.Errorf("Detail = %q", se.Detail)
	}

	if st.Snapshot().Session.IsAuthenticated() {
		t.Error("rejected login left the session authenticated")
	}
	if sessions.stored().IsAuthenticated() {
		t.Error("rejected login persisted a session")
	}
}

func TestExecuteLoginPersistFailureIsNonFatal(t *testing.T) {
	st := newTestState()
	defer st.Stop()
	srv := &fakeAPI{
		loginResult: api.LoginResult{Token: "tok-abc", Username: "teacher"},
		catalog:     activity.Catalog{},
	}
	sessions := &fakeSessionStore{saveErr: errors.New("disk full")}

	_, err := orchestrators.ExecuteLogin(context.Background(), orchestrators.LoginInput{
		Username: "teacher",
		Password: "secret",
	}, orchestrators.LoginDeps{
		API:      srv,
		Sessions: sessions,
		State:    st,
		Refresh:  orchestrators.RefreshDeps{API: srv, State: st},
	})
	if err != nil {
		t.Fatalf("persist failure surfaced as a login error: %v", err)
	}
	// The session still works for this run.
	if !st.Snapshot().Session.IsAuthenticated() {
		t.Error("in-memory session not set when persistence failed")
	}
}
