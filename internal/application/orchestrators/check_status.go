package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"mergington/internal/adapters/api"
	sessionStore "mergington/internal/adapters/storage/session"
	"mergington/internal/application/state"
	"mergington/internal/domain/session"
)

// StatusAPI defines the server call needed by CheckStatus.
type StatusAPI interface {
	Status(ctx context.Context, token string) (api.StatusResult, error)
}

// CheckStatusDeps holds dependencies for CheckStatus.
type CheckStatusDeps struct {
	API      StatusAPI
	Sessions sessionStore.Store
	State    *state.Store
}

// AuthState is the reconciled authentication state.
type AuthState struct {
	Authenticated bool
	Username      string
}

// ExecuteCheckStatus reconciles the durable token with the server.
// PRE: Valid dependencies
// POST: No durable token: unauthenticated, no network call. Server says
// the token is invalid: the durable token is cleared (self-healing).
// Network failure: unauthenticated result, but the durable token is kept
// so a dropped connection does not log the user out.
func ExecuteCheckStatus(ctx context.Context, deps CheckStatusDeps) (AuthState, error) {
	sess, err := deps.Sessions.Get(ctx)
	if err != nil {
		return AuthState{}, fmt.Errorf("load session: %w", err)
	}

	if !sess.IsAuthenticated() {
		deps.State.SetSession(session.Anonymous())
		return AuthState{}, nil
	}

	result, err := deps.API.Status(ctx, sess.Token)
	if err != nil {
		slog.Warn("status_check_failed", "error", err.Error())
		deps.State.SetSession(session.Anonymous())
		return AuthState{}, fmt.Errorf("check status: %w", err)
	}

	if !result.Authenticated {
		// The token expired server-side; a stale token must not linger.
		if err := deps.Sessions.Clear(ctx); err != nil {
			slog.Warn("session_clear_failed", "error", err.Error())
		}
		deps.State.SetSession(session.Anonymous())
		slog.Info("auth_event", "event", "token_expired", "username", sess.Username)
		return AuthState{}, nil
	}

	username := result.Username
	if username == "" {
		username = sess.Username
	}
	deps.State.SetSession(session.Session{Token: sess.Token, Username: username})
	return AuthState{Authenticated: true, Username: username}, nil
}
