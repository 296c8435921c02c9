package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lab-control/lcc/clock"
	"github.com/lab-control/lcc/config"
	"github.com/lab-control/lcc/protocol"
)

var (
	// ErrSchedulerClosed means the scheduler was torn down.
	ErrSchedulerClosed = errors.New("playback scheduler is closed")

	// ErrIndexOutOfRange means a seek target lies outside [0, N-1].
	ErrIndexOutOfRange = errors.New("seek index out of range")

	// ErrInvalidSpeed means a speed multiplier was zero or negative.
	ErrInvalidSpeed = errors.New("playback speed must be positive")
)

// Cursor is the externally visible playback position.
type Cursor struct {
	Index   int
	Playing bool
	Speed   float64
}

// SchedulerOptions configures a Scheduler. Events is required. OnAdvance is
// invoked from the scheduler's goroutines and must not call back into it.
type SchedulerOptions struct {
	Events *EventLog
	Timing *config.Timing
	Clock  clock.Clock

	// OnAdvance receives each event as the cursor reaches it.
	OnAdvance func(index int, event protocol.RecordedEvent)

	Log *logrus.Entry
}

// Scheduler replays the event log on a single logical timeline: while
// playing at index i, the delay until i+1 is max(floor, Δelapsed/speed).
// Exactly one timer is pending at any moment; every transition that changes
// what "next" means cancels the outstanding timer first.
type Scheduler struct {
	events  *EventLog
	clk     clock.Clock
	minStep time.Duration
	log     *logrus.Entry

	onAdvance func(int, protocol.RecordedEvent)

	mu        sync.Mutex
	index     int
	playing   bool
	speed     float64
	delivered bool
	timer     clock.Timer
	gen       uint64
	closed    bool
}

// NewScheduler creates a stopped scheduler at index 0 with speed 1.0.
func NewScheduler(opts SchedulerOptions) (*Scheduler, error) {
	if opts.Events == nil {
		return nil, fmt.Errorf("event log is required")
	}
	if opts.Timing == nil {
		opts.Timing = config.Baseline()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Log == nil {
		opts.Log = logrus.WithField("component", "playback")
	}

	return &Scheduler{
		events:    opts.Events,
		clk:       opts.Clock,
		minStep:   opts.Timing.MinStepDelay,
		log:       opts.Log,
		onAdvance: opts.OnAdvance,
		speed:     1.0,
	}, nil
}

// Play starts or resumes playback from the current index. Calling Play while
// already playing is a no-op: there is never more than one pending advance.
// An empty recording is immediately at the end, so Play does nothing.
func (s *Scheduler) Play() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSchedulerClosed
	}
	if s.playing || s.events.Empty() {
		s.mu.Unlock()
		return nil
	}

	s.playing = true

	var emit *protocol.RecordedEvent
	emitIdx := s.index
	if !s.delivered {
		event := s.events.Event(s.index)
		emit = &event
		s.delivered = true
	}
	gen := s.gen
	s.mu.Unlock()

	if emit != nil {
		s.deliver(emitIdx, *emit)
	}

	s.mu.Lock()
	if !s.closed && s.playing && gen == s.gen {
		s.scheduleNextLocked()
	}
	s.mu.Unlock()
	return nil
}

// Pause cancels the pending advance and freezes the cursor.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.playing {
		return
	}
	s.cancelLocked()
	s.playing = false
}

// Seek jumps the cursor to index. Seeking is a jump, not a fast-forward: no
// intermediate event is delivered. While paused the new index takes effect
// silently; while playing it behaves as pause followed by resume from the
// new index.
func (s *Scheduler) Seek(index int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSchedulerClosed
	}
	if index < 0 || index >= s.events.Len() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, s.events.Len()-1)
	}

	wasPlaying := s.playing
	s.cancelLocked()
	s.playing = false
	s.index = index
	s.delivered = false

	if !wasPlaying {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.Play()
}

// SetSpeed changes the speed multiplier. It takes effect on the next
// scheduled step; the step already in flight keeps the delay computed under
// the previous speed.
func (s *Scheduler) SetSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSchedulerClosed
	}
	s.speed = speed
	return nil
}

// Reset cancels any pending advance and rewinds to index 0, stopped.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelLocked()
	s.playing = false
	s.index = 0
	s.delivered = false
}

// Close tears the scheduler down. No timer fires after Close returns; a
// second Close is a no-op.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelLocked()
	s.playing = false
	s.closed = true
}

// Cursor returns the current playback position.
func (s *Scheduler) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Cursor{Index: s.index, Playing: s.playing, Speed: s.speed}
}

// AtEnd reports whether the cursor sits on the last event (or the recording
// is empty).
func (s *Scheduler) AtEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.Empty() || s.index >= s.events.Len()-1
}

// scheduleNextLocked arms the single pending advance. Caller holds mu and
// has verified playing. At the last index playback stops in place.
func (s *Scheduler) scheduleNextLocked() {
	s.cancelLocked()

	if s.index >= s.events.Len()-1 {
		s.playing = false
		s.log.WithField("index", s.index).Debug("playback reached end of recording")
		return
	}

	deltaMs := s.events.Event(s.index+1).ElapsedMs - s.events.Event(s.index).ElapsedMs
	delay := time.Duration(float64(deltaMs) / s.speed * float64(time.Millisecond))
	if delay < s.minStep {
		// Forward-progress floor: simultaneous events and extreme speeds
		// still advance with a bounded wake-up rate.
		delay = s.minStep
	}

	gen := s.gen
	s.timer = s.clk.AfterFunc(delay, func() { s.advance(gen) })
}

// advance is the timer body. gen guards against a fire that was cancelled
// after its timer had already been committed to run.
func (s *Scheduler) advance(gen uint64) {
	s.mu.Lock()
	if s.closed || !s.playing || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.index++
	s.delivered = true
	idx := s.index
	event := s.events.Event(idx)
	s.mu.Unlock()

	s.deliver(idx, event)

	s.mu.Lock()
	if !s.closed && s.playing && gen == s.gen {
		s.scheduleNextLocked()
	}
	s.mu.Unlock()
}

// cancelLocked stops the pending timer and invalidates any fire already in
// flight. Caller holds mu.
func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) deliver(index int, event protocol.RecordedEvent) {
	if s.onAdvance != nil {
		s.onAdvance(index, event)
	}
}
