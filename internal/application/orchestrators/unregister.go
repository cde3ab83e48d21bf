package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"mergington/internal/application/state"
	"mergington/internal/domain/banner"
)

// UnregisterAPI defines the server call needed by Unregister.
type UnregisterAPI interface {
	Unregister(ctx context.Context, name, emailAddr, token string) (string, error)
}

// UnregisterInput carries input for the unregister orchestrator.
type UnregisterInput struct {
	ActivityName string
	Email        string
}

// UnregisterDeps holds dependencies for Unregister.
type UnregisterDeps struct {
	API     UnregisterAPI
	State   *state.Store
	Refresh RefreshDeps
}

// ErrNotAuthenticated blocks unregister for anonymous visitors before any
// network call.
var ErrNotAuthenticated = errors.New("you must be logged in to remove a participant")

// ExecuteUnregister removes an email from an activity, then refreshes the
// catalog.
// PRE: The session is authenticated; activity and email are non-empty
// POST: On success the catalog is refreshed and a success banner shown;
// on failure an error banner is shown and the catalog is untouched
func ExecuteUnregister(ctx context.Context, input UnregisterInput, deps UnregisterDeps) (string, error) {
	snap := deps.State.Snapshot()
	if !snap.Session.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}
	if strings.TrimSpace(input.ActivityName) == "" {
		return "", ErrActivityRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return "", ErrEmailRequired
	}

	actionID := uuid.New().String()

	message, err := deps.API.Unregister(ctx, input.ActivityName, input.Email, snap.Session.Token)
	if err != nil {
		deps.State.ShowBanner(banner.Error(actionErrorMessage(err, "Failed to unregister. Please try again.")))
		slog.Warn("unregister_failed", "action_id", actionID, "activity", input.ActivityName, "error", err.Error())
		return "", fmt.Errorf("unregister: %w", err)
	}

	deps.State.ShowBanner(banner.Success(message))
	if err := ExecuteRefresh(ctx, deps.Refresh); err != nil {
		slog.Warn("unregister_refresh_failed", "action_id", actionID, "error", err.Error())
	}

	slog.Info("unregister_succeeded", "action_id", actionID, "activity", input.ActivityName, "email", input.Email)
	return message, nil
}
