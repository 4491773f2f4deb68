// Package common defines shared constants and sentinel errors used across
// Wishkeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Authentication errors. Missing user and wrong password are both
	// reported as ErrInvalidCredentials so that login failures do not
	// reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token decode errors.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")

	// Blob or durable-store I/O failure.
	ErrStorage = errors.New("storage error")
)
