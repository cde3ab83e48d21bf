package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"mergington/internal/adapters/api"
	"mergington/internal/adapters/email"
	"mergington/internal/application/state"
	"mergington/internal/domain/banner"
)

// SignUpAPI defines the server call needed by SignUp.
type SignUpAPI interface {
	SignUp(ctx context.Context, name, emailAddr, token string) (string, error)
}

// SignUpInput carries input for the sign-up orchestrator.
type SignUpInput struct {
	ActivityName string
	Email        string
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	API       SignUpAPI
	State     *state.Store
	Refresh   RefreshDeps
	Confirm   email.Sender // optional confirmation sender
	EmailFrom string
}

// Validation errors: these block dispatch entirely — no network call is
// issued.
var (
	ErrActivityRequired = errors.New("an activity must be selected")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email must be a valid address")
)

// ExecuteSignUp registers an email for an activity, then refreshes the
// catalog so the new participant shows up.
// PRE: Valid dependencies
// POST: On success the catalog is refreshed, a success banner is shown and
// the registration surface auto-close timer is armed; on failure the
// surface stays open and an error banner is shown
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps SignUpDeps) (string, error) {
	if err := validateSignUpInput(input); err != nil {
		deps.State.ShowBanner(banner.Error(err.Error()))
		return "", err
	}

	actionID := uuid.New().String()
	token := deps.State.Snapshot().Session.Token

	message, err := deps.API.SignUp(ctx, input.ActivityName, input.Email, token)
	if err != nil {
		deps.State.ShowBanner(banner.Error(actionErrorMessage(err, "Failed to sign up. Please try again.")))
		slog.Warn("signup_failed", "action_id", actionID, "activity", input.ActivityName, "error", err.Error())
		return "", fmt.Errorf("sign up: %w", err)
	}

	deps.State.ShowBanner(banner.Success(message))
	if err := ExecuteRefresh(ctx, deps.Refresh); err != nil {
		slog.Warn("signup_refresh_failed", "action_id", actionID, "error", err.Error())
	}
	deps.State.ScheduleSignupClose()

	sendConfirmation(ctx, deps, input)

	slog.Info("signup_succeeded", "action_id", actionID, "activity", input.ActivityName, "email", input.Email)
	return message, nil
}

// validateSignUpInput enforces required-field presence before dispatch.
func validateSignUpInput(input SignUpInput) error {
	if strings.TrimSpace(input.ActivityName) == "" {
		return ErrActivityRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	if !strings.Contains(input.Email, "@") {
		return ErrEmailInvalid
	}
	return nil
}

// sendConfirmation emails the student a registration confirmation.
// Best-effort: failures are logged and swallowed.
func sendConfirmation(ctx context.Context, deps SignUpDeps, input SignUpInput) {
	if deps.Confirm == nil {
		return
	}
	req := email.SendRequest{
		To:      []string{input.Email},
		From:    deps.EmailFrom,
		Subject: "Registration confirmed: " + input.ActivityName,
		HTML: fmt.Sprintf("<p>You are registered for <strong>%s</strong>. See you there!</p>",
			input.ActivityName),
	}
	if _, err := deps.Confirm.Send(ctx, req); err != nil {
		slog.Warn("signup_confirmation_failed", "email", input.Email, "error", err.Error())
	}
}

// actionErrorMessage maps an action error to the banner text: the server's
// detail verbatim when present, a generic fallback otherwise.
func actionErrorMessage(err error, fallback string) string {
	if se, ok := api.AsServerError(err); ok {
		if se.Detail != "" {
			return se.Detail
		}
		return "An error occurred"
	}
	return fallback
}
