// Package apperr defines the error kinds reported by the catalog, ledger and session core.
//
// Each kind has a sentinel for errors.Is and a typed value for errors.As.
// None of them is fatal; callers decide how to present or retry.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConflict matches any *ConflictError.
	ErrConflict = errors.New("conflict")
	// ErrAuth matches any *AuthError.
	ErrAuth = errors.New("authentication failed")
	// ErrInvalid marks malformed caller input (bad dates, unknown roles, bad numbers).
	ErrInvalid = errors.New("invalid input")
)

// NotFoundError reports a referenced property, booking or user that does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound returns a *NotFoundError for the given resource and id.
func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a uniqueness violation: a taken booking slot,
// a registered email, or a disallowed status transition.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// Is reports whether target is ErrConflict.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Conflict returns a *ConflictError with a formatted reason.
func Conflict(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// AuthError reports a credential mismatch or a missing session.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

// Is reports whether target is ErrAuth.
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// Auth returns an *AuthError with the given reason.
func Auth(reason string) error {
	return &AuthError{Reason: reason}
}

// Invalid wraps ErrInvalid with a formatted message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid)
}
