// Package common defines shared constants and sentinel errors used across
// the Planwise server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// ErrNotFound covers both "row does not exist" and "row exists but is
	// owned by someone else". The API never distinguishes the two.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned for missing, malformed or expired
	// tokens, and for accounts outside the allowed email domains.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidArgument is returned for requests with missing required
	// fields or values of the wrong shape.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInternal wraps unexpected persistence or infrastructure failures.
	ErrInternal = errors.New("internal error")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrEmailExists is returned when registering an already-known email.
	ErrEmailExists = errors.New("email already registered")
)
