package session

import (
	"context"
	"fmt"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sirupsen/logrus"

	"github.com/lab-control/lcc/auth"
	"github.com/lab-control/lcc/clock"
	"github.com/lab-control/lcc/config"
	"github.com/lab-control/lcc/conn"
	"github.com/lab-control/lcc/playback"
	"github.com/lab-control/lcc/protocol"
	"github.com/lab-control/lcc/state"
	"github.com/lab-control/lcc/view"
)

// MonitorOptions configures the session registry. StreamEndpoint is the
// websocket base URL, APIEndpoint the REST base URL for playback fetches.
type MonitorOptions struct {
	StreamEndpoint string
	APIEndpoint    string
	Token          string

	Timing *config.Timing
	Clock  clock.Clock
	Dialer conn.Dialer

	Log *logrus.Entry
}

// WatchOptions carries the per-session observers of a live session.
type WatchOptions struct {
	// OnState observes the connection lifecycle.
	OnState func(conn.State)

	// OnFault receives configuration errors discovered after Watch
	// returned, such as an auth rejection during the handshake.
	OnFault func(error)
}

// Monitor is the registry of active sessions, one per lab. Starting a second
// session for a lab, live or replay, fails until the first one is closed.
type Monitor struct {
	opts    MonitorOptions
	fetcher *playback.Fetcher
	log     *logrus.Entry

	sessions cmap.ConcurrentMap[string, *Session]

	mu     sync.Mutex
	closed bool
}

// NewMonitor validates the options and the token once, up front.
func NewMonitor(opts MonitorOptions) (*Monitor, error) {
	if opts.StreamEndpoint == "" {
		return nil, fmt.Errorf("stream endpoint is required")
	}
	if opts.APIEndpoint == "" {
		return nil, fmt.Errorf("api endpoint is required")
	}
	if opts.Timing == nil {
		opts.Timing = config.Baseline()
	}
	if err := config.Validate(opts.Timing); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Log == nil {
		opts.Log = logrus.WithField("component", "monitor")
	}

	if err := auth.CheckToken(opts.Token, opts.Clock.Now()); err != nil {
		return nil, err
	}

	return &Monitor{
		opts:     opts,
		fetcher:  playback.NewFetcher(opts.APIEndpoint, opts.Token, opts.Timing),
		log:      opts.Log,
		sessions: cmap.New[*Session](),
	}, nil
}

// Watch starts a live session for labID and connects it.
func (m *Monitor) Watch(labID string, watch WatchOptions) (*Session, error) {
	if labID == "" {
		return nil, fmt.Errorf("lab id is required")
	}
	if err := m.check(); err != nil {
		return nil, err
	}

	rec := state.NewReconciler(labID)
	log := m.log.WithField("lab", labID)

	mgr, err := conn.NewManager(conn.Options{
		URL:       conn.MonitorURL(m.opts.StreamEndpoint, labID, m.opts.Token),
		Token:     m.opts.Token,
		Timing:    m.opts.Timing,
		Clock:     m.opts.Clock,
		Dialer:    m.opts.Dialer,
		OnMessage: func(msg protocol.Message) { rec.Apply(msg) },
		OnState:   watch.OnState,
		OnFault:   watch.OnFault,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		labID: labID,
		mode:  ModeLive,
		log:   log,
		mgr:   mgr,
		live:  view.NewLive(mgr, rec),
	}
	s.onClose = func() { m.sessions.Remove(labID) }

	if !m.sessions.SetIfAbsent(labID, s) {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, labID)
	}

	if err := mgr.Open(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Replay fetches the recording for sessionID and starts a paused replay
// session at index 0.
func (m *Monitor) Replay(ctx context.Context, labID, sessionID string) (*Session, error) {
	if labID == "" || sessionID == "" {
		return nil, fmt.Errorf("lab id and session id are required")
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	if m.sessions.Has(labID) {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, labID)
	}

	meta, events, err := m.fetcher.Fetch(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log := m.log.WithFields(logrus.Fields{"lab": labID, "session": sessionID})

	sched, err := playback.NewScheduler(playback.SchedulerOptions{
		Events: events,
		Timing: m.opts.Timing,
		Clock:  m.opts.Clock,
		Log:    log,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		labID:  labID,
		mode:   ModeReplay,
		log:    log,
		meta:   meta,
		sched:  sched,
		replay: view.NewReplay(events, sched),
	}
	s.onClose = func() { m.sessions.Remove(labID) }

	if !m.sessions.SetIfAbsent(labID, s) {
		sched.Close()
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, labID)
	}
	return s, nil
}

// Get returns the active session for labID, if any.
func (m *Monitor) Get(labID string) (*Session, bool) {
	return m.sessions.Get(labID)
}

// Labs returns the lab IDs with an active session.
func (m *Monitor) Labs() []string {
	return m.sessions.Keys()
}

// Count returns the number of active sessions.
func (m *Monitor) Count() int {
	return m.sessions.Count()
}

// Close tears down every active session. Idempotent; the registry rejects
// new sessions afterwards.
func (m *Monitor) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	for item := range m.sessions.IterBuffered() {
		item.Val.Close()
	}
	return nil
}

func (m *Monitor) check() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMonitorClosed
	}
	return nil
}
