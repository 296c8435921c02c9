// Package session composes the connection, reconciliation, playback and view
// layers into per-lab sessions behind a single registry. A lab is monitored
// either live or as a replay of a recorded session, never both at once; the
// Monitor enforces that and owns teardown.
package session
