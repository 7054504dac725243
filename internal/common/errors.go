// Package common defines shared constants and sentinel errors used across
// client and server layers of gophblog. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Local storage could not be read or written (disk full, permission
	// denied, closed database).
	ErrIOFailure = errors.New("local storage unavailable")

	// Remote query errors.
	ErrNetworkFailure       = errors.New("network failure")
	ErrRemoteServiceFailure = errors.New("remote service failure")
	ErrUnauthorized         = errors.New("unauthorized")

	// Request validation errors.
	ErrInvalidQuery = errors.New("invalid query")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
