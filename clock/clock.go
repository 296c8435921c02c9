package clock

import "time"

// Clock provides the current time and one-shot timers.
type Clock interface {
	// Now returns the current time according to this clock.
	Now() time.Time

	// AfterFunc schedules f to run after d has elapsed and returns a handle
	// that can cancel the pending run.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable handle to a pending AfterFunc call.
type Timer interface {
	// Stop cancels the pending call. It reports whether the call was still
	// pending; false means it already ran or was already stopped.
	Stop() bool
}

// System is a Clock backed by the time package.
type System struct{}

// NewSystem returns the real-time clock.
func NewSystem() *System {
	return &System{}
}

// Now returns time.Now().
func (s *System) Now() time.Time {
	return time.Now()
}

// AfterFunc delegates to time.AfterFunc.
func (s *System) AfterFunc(d time.Duration, f func()) Timer {
	return &systemTimer{t: time.AfterFunc(d, f)}
}

type systemTimer struct {
	t *time.Timer
}

func (st *systemTimer) Stop() bool {
	return st.t.Stop()
}
