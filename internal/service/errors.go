package service

import "errors"

// Sentinel errors returned by the services. Handlers map these to HTTP
// statuses; anything else surfaces as an internal error.
var (
	// ErrNotFound marks a referenced record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a principal that fails a role or ownership check.
	ErrUnauthorized = errors.New("access denied")

	// ErrInvalidInput marks a request that fails semantic validation.
	ErrInvalidInput = errors.New("invalid input")
)
