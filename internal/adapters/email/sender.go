package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send a confirmation email via an
// external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "Mergington High School <noreply@mergington.edu>")
	Subject string
	HTML    string // HTML body
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
// Delivery is best-effort: callers log failures and carry on.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
