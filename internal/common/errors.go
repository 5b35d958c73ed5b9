// Package common defines shared constants and sentinel errors used across
// the storekeeper client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrorUnauthorized is returned when the server rejects the presented
	// credentials or bearer token.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorNotLoggedIn is returned by session operations that require an
	// established session, before any network call is made.
	ErrorNotLoggedIn = errors.New("not logged in")

	// ErrorUnavailable is returned when a request never reached the server.
	ErrorUnavailable = errors.New("server unavailable")
)
