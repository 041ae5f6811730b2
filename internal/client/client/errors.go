package client

import "errors"

var (
	// ErrUnavailable means the server could not be reached.
	ErrUnavailable = errors.New("server unavailable")

	// ErrClosed means the connection was closed while a call was in flight.
	ErrClosed = errors.New("connection closed")
)
