package playback

import (
	"errors"
	"fmt"

	"github.com/lab-control/lcc/protocol"
)

// ErrOutOfOrder means the recorded event sequence violates the
// non-decreasing elapsed-time invariant. This is a recorder bug upstream;
// the log is rejected rather than silently re-sorted.
var ErrOutOfOrder = errors.New("recorded events out of time order")

// EventLog is the immutable, time-ordered recording used for replay. An
// empty log is valid: it represents a session with no recorded activity and
// playback over it is immediately at the end.
type EventLog struct {
	events []protocol.RecordedEvent
}

// NewEventLog validates and stores the fetched event sequence. ElapsedMs
// must be non-decreasing across indices; a violation is a data-integrity
// error surfaced to the caller.
func NewEventLog(events []protocol.RecordedEvent) (*EventLog, error) {
	for i := 1; i < len(events); i++ {
		if events[i].ElapsedMs < events[i-1].ElapsedMs {
			return nil, fmt.Errorf("%w: event %d at %dms precedes event %d at %dms",
				ErrOutOfOrder, i, events[i].ElapsedMs, i-1, events[i-1].ElapsedMs)
		}
	}

	return &EventLog{events: append([]protocol.RecordedEvent(nil), events...)}, nil
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// Empty reports whether the recording holds no events.
func (l *EventLog) Empty() bool {
	return len(l.events) == 0
}

// Event returns the event at index i. The index must be in [0, Len()-1].
func (l *EventLog) Event(i int) protocol.RecordedEvent {
	return l.events[i]
}

// DurationMs returns the elapsed offset of the last event, or 0 for an empty
// log.
func (l *EventLog) DurationMs() int64 {
	if len(l.events) == 0 {
		return 0
	}
	return l.events[len(l.events)-1].ElapsedMs
}
