package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common failures.
var (
	// ErrNotFound is returned by a ProfileStore when no record exists for the key.
	ErrNotFound = errors.New("requested resource not found")

	// ErrNotAuthenticated is returned when an operation needs a live session
	// and the identity provider reports none.
	ErrNotAuthenticated = errors.New("no authenticated session")
)
