// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import "errors"

// Sentinel errors for use with errors.Is().
// Each one names a failure class; result.Error values unwrap to the sentinel of their kind.
var (
	// ErrValidation indicates client input was malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as duplicate entry or version mismatch.
	ErrConflict = errors.New("conflict")

	// ErrRateLimited indicates a caller or upstream throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized indicates the caller was rejected by an authentication check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrFailure indicates a generic, unclassified failure.
	ErrFailure = errors.New("failure")
)

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnauthorized checks if an error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsFailure checks if an error is a generic failure.
func IsFailure(err error) bool {
	return errors.Is(err, ErrFailure)
}
