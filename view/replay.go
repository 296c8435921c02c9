package view

import (
	"github.com/lab-control/lcc/playback"
	"github.com/lab-control/lcc/protocol"
)

// Replay projects one replay session: the event under the cursor, progress
// through the recording, and the failure state when the recording could not
// be loaded at all. A failed replay and an empty recording are different
// things and render differently.
type Replay struct {
	events *playback.EventLog
	sched  *playback.Scheduler
	err    error
}

// NewReplay creates a view over a loaded recording and its scheduler.
func NewReplay(events *playback.EventLog, sched *playback.Scheduler) *Replay {
	return &Replay{events: events, sched: sched}
}

// NewFailedReplay creates the view for a recording that failed to load.
func NewFailedReplay(err error) *Replay {
	return &Replay{err: err}
}

// Err returns the load failure, or nil for a usable replay.
func (v *Replay) Err() error {
	return v.err
}

// Empty reports a successfully loaded recording with no events.
func (v *Replay) Empty() bool {
	return v.err == nil && v.events.Empty()
}

// Current returns the event under the cursor. ok is false for a failed or
// empty replay.
func (v *Replay) Current() (event protocol.RecordedEvent, ok bool) {
	if v.err != nil || v.events.Empty() {
		return protocol.RecordedEvent{}, false
	}
	return v.events.Event(v.sched.Cursor().Index), true
}

// Cursor returns the scheduler's position. Zero value for a failed replay.
func (v *Replay) Cursor() playback.Cursor {
	if v.err != nil {
		return playback.Cursor{}
	}
	return v.sched.Cursor()
}

// AtEnd reports whether the cursor sits on the last event.
func (v *Replay) AtEnd() bool {
	if v.err != nil {
		return false
	}
	return v.sched.AtEnd()
}

// Progress returns replay completion in percent. An empty recording is
// complete by definition; a recording whose events all share one timestamp
// likewise reads 100 the moment the cursor lands anywhere on it.
func (v *Replay) Progress() float64 {
	if v.err != nil {
		return 0
	}
	if v.events.Empty() {
		return 100
	}

	duration := v.events.DurationMs()
	if duration == 0 {
		return 100
	}

	elapsed := v.events.Event(v.sched.Cursor().Index).ElapsedMs
	return float64(elapsed) / float64(duration) * 100
}
