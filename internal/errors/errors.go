package errors

import (
	"errors"
	"fmt"
)

// Common error types for the catalog authentication service
var (
	// Authentication errors
	ErrUserNotFound = errors.New("user not found")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Usage errors - rejected before any I/O
	ErrBlankPassword = errors.New("password cannot be blank")
	ErrBlankUsername = errors.New("username cannot be blank")

	// Persistence errors
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")

	// Configuration errors - fatal at startup, never defaulted
	ErrMissingConfig = errors.New("missing required configuration")
)

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
