package errors

import (
	"errors"
	"fmt"
)

// Common error types for the booking workflow
var (
	// Session lifecycle errors
	ErrNoActiveSession = errors.New("no active booking session")
	ErrSessionExpired  = errors.New("booking session expired")

	// Input errors
	ErrValidation = errors.New("validation failed")

	// Storage errors
	ErrPersistence = errors.New("session persistence failed")
	ErrNotFound    = errors.New("not found")
)

// ValidationError is a specific input failure. Each value is matchable on its
// own with errors.Is and also matches ErrValidation.
type ValidationError struct {
	msg string
}

// NewValidation creates a validation error with the given message.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
