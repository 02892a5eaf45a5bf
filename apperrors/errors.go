// Package apperrors holds the error taxonomy shared by the remote client, the
// local mirror and the HTTP handlers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("service unavailable")
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 5")

	// ErrPartialFailure marks an operation whose main effect happened while a
	// follow-up write did not.
	ErrPartialFailure = errors.New("partially applied")
)

// NotFound returns an ErrNotFound naming the missing resource.
func NotFound(resource string, id uint) error {
	return fmt.Errorf("%s %d: %w", resource, id, ErrNotFound)
}

// Invalid returns an ErrValidation carrying a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a validation or difficulty error.
// Validation failures are the caller's fault and must never trigger a fallback.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidDifficulty)
}
