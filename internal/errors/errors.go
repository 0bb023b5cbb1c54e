package errors

import (
	"errors"
	"fmt"
)

// Common error types for the quickstart client
var (
	// Configuration errors
	ErrMissingClientID     = errors.New("missing CLIENT_ID environment variable")
	ErrMissingClientSecret = errors.New("missing CLIENT_SECRET environment variable")
	ErrUnknownTokenStore   = errors.New("unknown token store")

	// Token errors
	ErrNotFound          = errors.New("not found")
	ErrMissingSessionID  = errors.New("session id is required")
	ErrMissingCode       = errors.New("missing authorization code")
	ErrInvalidTokenReply = errors.New("invalid token response")

	// API errors
	ErrNoContacts = errors.New("no contacts returned")
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

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}
