// Package playback reconstructs a recorded session: an immutable,
// time-ordered event log fetched once from the historical-data endpoint, and
// a scheduler that replays it at a configurable speed with pause, resume and
// seek.
//
// The scheduler owns exactly one pending timer at any moment. Every control
// operation that changes what "next" means (pause, seek, speed change,
// reset, teardown) cancels the outstanding timer before deriving a new one.
package playback
