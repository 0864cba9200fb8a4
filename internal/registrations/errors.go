package registrations

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every FieldError.
	ErrValidation = errors.New("validation error")
	// ErrInvalidEmail is returned when the email lacks '@' or '.'.
	ErrInvalidEmail = errors.New("Invalid email format")
	// ErrDuplicate is returned when a registration already exists for the email.
	ErrDuplicate = errors.New("Email already registered")
	// ErrDownstream wraps failures of best-effort dependencies.
	ErrDownstream = errors.New("downstream unavailable")
	// ErrInternal wraps failures that must surface as a generic server error.
	ErrInternal = errors.New("internal error")
)

// FieldError names the first required field that was missing or blank.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("Field %s is required", e.Field)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *FieldError) Unwrap() error { return ErrValidation }
