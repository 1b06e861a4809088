// Package common defines shared constants and sentinel errors used across
// client and server layers of visitkeeper. Callers should use errors.Is to
// match these values; business failures wrap a sentinel with a reason.
package common

import "errors"

var (
	// Lookup miss at the repository level. Services translate it into an
	// empty result or into ErrNotFound for operations that require the row.
	ErrNotFound = errors.New("not found")

	// Malformed or out-of-policy input.
	ErrValidation = errors.New("validation error")

	// Uniqueness violation (username or email already taken).
	ErrConflict = errors.New("already exists")

	// Credential mismatch or acting on somebody else's data.
	ErrAuthorization = errors.New("not authorized")

	// No identity bound to the request, or an invalid/expired session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Service-level failure that is not one of the business kinds above.
	ErrInternal = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
