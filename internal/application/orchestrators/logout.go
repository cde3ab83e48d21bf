package orchestrators

import (
	"context"
	"log/slog"

	sessionStore "mergington/internal/adapters/storage/session"
	"mergington/internal/application/state"
	"mergington/internal/domain/session"
)

// LogoutAPI defines the server call needed by Logout.
type LogoutAPI interface {
	Logout(ctx context.Context, token string) error
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	API      LogoutAPI
	Sessions sessionStore.Store
	State    *state.Store
	Refresh  RefreshDeps
}

// ExecuteLogout notifies the server best-effort, then unconditionally
// clears the durable token and refreshes the catalog so auth-gated
// affordances disappear immediately.
// PRE: none (a logout with no session is a no-op on the server side)
// POST: Durable and in-memory session are cleared regardless of server
// reachability
func ExecuteLogout(ctx context.Context, deps LogoutDeps) {
	token := deps.State.Snapshot().Session.Token

	if token != "" {
		if err := deps.API.Logout(ctx, token); err != nil {
			// Best-effort: the local session is cleared either way.
			slog.Warn("logout_notify_failed", "error", err.Error())
		}
	}

	if err := deps.Sessions.Clear(ctx); err != nil {
		slog.Warn("session_clear_failed", "error", err.Error())
	}
	deps.State.SetSession(session.Anonymous())

	if err := ExecuteRefresh(ctx, deps.Refresh); err != nil {
		slog.Warn("logout_refresh_failed", "error", err.Error())
	}

	slog.Info("auth_event", "event", "logout")
}
