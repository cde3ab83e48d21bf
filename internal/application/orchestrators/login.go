package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mergington/internal/adapters/api"
	sessionStore "mergington/internal/adapters/storage/session"
	"mergington/internal/application/state"
	"mergington/internal/domain/session"
)

// LoginAPI defines the server call needed by Login.
type LoginAPI interface {
	Login(ctx context.Context, username, password string) (api.LoginResult, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Username string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API      LoginAPI
	Sessions sessionStore.Store
	State    *state.Store
	Refresh  RefreshDeps
}

// ErrCredentialsRequired blocks login dispatch when a field is missing.
var ErrCredentialsRequired = errors.New("username and password are required")

// ExecuteLogin exchanges credentials for a session, persists it durably
// and refreshes the catalog so auth-gated affordances appear immediately.
// PRE: Valid username and password provided
// POST: On success the session is stored durably and in memory; on failure
// no state changes and the server's rejection is returned
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrCredentialsRequired
	}

	result, err := deps.API.Login(ctx, input.Username, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username)
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}

	sess := session.Session{Token: result.Token, Username: result.Username}
	if err := deps.Sessions.Save(ctx, sess); err != nil {
		// The session still works for this run; it just won't survive a
		// restart.
		slog.Warn("session_persist_failed", "error", err.Error())
	}
	deps.State.SetSession(sess)

	if err := ExecuteRefresh(ctx, deps.Refresh); err != nil {
		slog.Warn("login_refresh_failed", "error", err.Error())
	}

	slog.Info("auth_event", "event", "login_success", "username", result.Username)
	return LoginResult{Username: result.Username}, nil
}
