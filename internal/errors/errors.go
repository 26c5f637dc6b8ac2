package errors

import (
	"errors"
	"fmt"
)

// Error categories for the login exchange
var (
	// Server side
	ErrConfiguration = errors.New("server configuration incomplete")

	// Caller side
	ErrMissingCode        = errors.New("no authorization code provided")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrInvalidRequestBody = errors.New("invalid request body")

	// Identity provider
	ErrProviderToken   = errors.New("provider rejected the authorization code")
	ErrProviderProfile = errors.New("provider profile request failed")
	ErrTransport       = errors.New("provider request failed")
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
