// Package booking provides the viewing-request ledger: booking records, the
// no-double-booking rule, and write-through persistence to a snapshot store.
package booking

import (
	"time"

	"github.com/evcraddock/homeview/internal/apperr"
)

// DateLayout is the calendar-date format used for booking and creation dates.
const DateLayout = "2006-01-02"

// Status is where a booking is in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether a booking in this status holds its property/date slot.
// Pending and confirmed both do.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// canTransition lists the allowed lifecycle moves.
func canTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}

// Booking is a request to view a property on a date.
type Booking struct {
	ID         int64  `json:"id" yaml:"id"`
	UserID     int64  `json:"user_id" yaml:"user_id"`
	PropertyID int64  `json:"property_id" yaml:"property_id"`
	Date       string `json:"date" yaml:"date"` // YYYY-MM-DD
	Status     Status `json:"status" yaml:"status"`
	CreatedAt  string `json:"created_at" yaml:"created_at"` // YYYY-MM-DD
	Notes      string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Request is the input to Ledger.Create.
type Request struct {
	UserID     int64  `json:"user_id"`
	PropertyID int64  `json:"property_id"`
	Date       string `json:"date"`
	Notes      string `json:"notes,omitempty"`
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Invalid("invalid date %q (use YYYY-MM-DD)", s)
	}
	return d, nil
}
