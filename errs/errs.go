package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired means the operation needs a session that is absent
	// or expired.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAdminRequired means the session exists but lacks the admin role.
	ErrAdminRequired = errors.New("admin access required")
)

// ValidationError reports a missing or malformed required field, such as
// an empty cart at checkout or an unknown order status.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Validation builds a *ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
