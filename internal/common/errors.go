// Package common defines shared constants and sentinel errors used across
// client and server layers of SmartLearn. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Store contention that survived the busy-timeout window.
	ErrorStoreBusy = errors.New("store busy")

	// Client-side request wait expired before a matching response arrived.
	ErrorTimeout = errors.New("request timed out")
)
