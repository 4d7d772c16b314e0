package apperrors

import (
	"errors"
	"fmt"
)

// Common error types for the platform client
var (
	// Credential errors
	ErrNoCredential  = errors.New("no access credential")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRefreshFailed = errors.New("refresh failed")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// Storage errors
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
