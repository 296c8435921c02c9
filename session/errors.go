package session

import "errors"

var (
	// ErrSessionExists means the lab already has an active session. Close
	// it before starting another, live or replay.
	ErrSessionExists = errors.New("lab already has an active session")

	// ErrMonitorClosed means the registry was shut down.
	ErrMonitorClosed = errors.New("monitor is closed")

	// ErrNotLive means a live-only operation was invoked on a replay
	// session.
	ErrNotLive = errors.New("session is not live")

	// ErrNotReplay means a replay-only operation was invoked on a live
	// session.
	ErrNotReplay = errors.New("session is not a replay")
)
