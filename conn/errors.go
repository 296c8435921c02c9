package conn

import "errors"

var (
	// ErrClosed means the manager was torn down and cannot be reused.
	ErrClosed = errors.New("connection manager is closed")

	// ErrAlreadyStarted means Open was called while a connection attempt or
	// live connection already exists.
	ErrAlreadyStarted = errors.New("connection already started")

	// ErrAuthRejected means the endpoint refused the bearer token during the
	// handshake. This is a configuration error: it is reported once and does
	// not feed the reconnect loop.
	ErrAuthRejected = errors.New("endpoint rejected bearer token")
)
