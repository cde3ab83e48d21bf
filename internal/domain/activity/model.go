package activity

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for created_date values.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrNegativeCapacity = errors.New("max participants cannot be negative")
	ErrOverCapacity     = errors.New("participants exceed max participants")
)

// Activity holds state for a registerable scheduled item. The name is the
// catalog key and travels separately from the record on the wire.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	Category        string   `json:"category,omitempty"`
	CreatedDate     string   `json:"created_date,omitempty"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Catalog maps activity name to its record, as fetched from the server.
// It is replaced wholesale on every successful fetch and never mutated
// in place.
type Catalog map[string]Activity

// Validate checks if the Activity has valid data.
// PRE: Activity struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: len(Participants) <= MaxParticipants when capacity is positive
func (a *Activity) Validate() error {
	if a.MaxParticipants < 0 {
		return ErrNegativeCapacity
	}
	if a.MaxParticipants > 0 && len(a.Participants) > a.MaxParticipants {
		return ErrOverCapacity
	}
	return nil
}

// SpotsLeft returns the remaining capacity, never below zero.
// INVARIANT: Activity fields are not mutated
func (a *Activity) SpotsLeft() int {
	left := a.MaxParticipants - len(a.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// IsFull returns true if no spots remain.
// INVARIANT: Activity fields are not mutated
func (a *Activity) IsFull() bool {
	return a.SpotsLeft() == 0
}

// HasParticipant returns true if the email is already registered.
// INVARIANT: Activity fields are not mutated
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// CreatedAt parses the created_date field.
// PRE: none
// POST: Returns the parsed date and true, or the zero time and false when
// the field is missing or unparseable
func (a *Activity) CreatedAt() (time.Time, bool) {
	if a.CreatedDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, a.CreatedDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SearchText returns the lowercased text the search filter matches against:
// name, description, schedule and category joined together.
func (a *Activity) SearchText(name string) string {
	return strings.ToLower(name + " " + a.Description + " " + a.Schedule + " " + a.Category)
}
