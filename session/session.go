package session

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lab-control/lcc/conn"
	"github.com/lab-control/lcc/logstream"
	"github.com/lab-control/lcc/playback"
	"github.com/lab-control/lcc/protocol"
	"github.com/lab-control/lcc/view"
)

// Mode distinguishes a live session from a replay session.
type Mode int

const (
	ModeLive Mode = iota
	ModeReplay
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Session is one lab under observation. Exactly one of the live and replay
// halves is populated, per Mode.
type Session struct {
	labID string
	mode  Mode
	log   *logrus.Entry

	// live
	mgr  *conn.Manager
	live *view.Live

	// replay
	meta   *protocol.SessionMeta
	sched  *playback.Scheduler
	replay *view.Replay

	mu        sync.Mutex
	followers map[string]*logstream.Follower
	closed    bool
	onClose   func()
}

// LabID returns the lab this session observes.
func (s *Session) LabID() string {
	return s.labID
}

// Mode returns whether the session is live or a replay.
func (s *Session) Mode() Mode {
	return s.mode
}

// Live returns the live projection. Nil for a replay session.
func (s *Session) Live() *view.Live {
	return s.live
}

// Replay returns the replay projection. Nil for a live session.
func (s *Session) Replay() *view.Replay {
	return s.replay
}

// Meta returns the recorded-session metadata. Nil for a live session.
func (s *Session) Meta() *protocol.SessionMeta {
	return s.meta
}

// Scheduler exposes the playback controls of a replay session.
func (s *Session) Scheduler() (*playback.Scheduler, error) {
	if s.mode != ModeReplay {
		return nil, ErrNotReplay
	}
	return s.sched, nil
}

// FollowLogs starts streaming one container's log output alongside a live
// session. At most one follower per hostname; asking again returns the
// existing one. Followers close with the session.
func (s *Session) FollowLogs(opts logstream.FollowerOptions) (*logstream.Follower, error) {
	if s.mode != ModeLive {
		return nil, ErrNotLive
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrMonitorClosed
	}

	if existing, ok := s.followers[opts.Hostname]; ok {
		return existing, nil
	}

	opts.LabID = s.labID
	follower, err := logstream.NewFollower(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to follow logs for %s: %w", opts.Hostname, err)
	}
	if err := follower.Follow(); err != nil {
		follower.Close()
		return nil, err
	}

	if s.followers == nil {
		s.followers = make(map[string]*logstream.Follower)
	}
	s.followers[opts.Hostname] = follower
	return follower, nil
}

// Close tears the session down: the socket or the scheduler, plus any log
// followers, and removes it from the registry. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	followers := s.followers
	s.followers = nil
	s.mu.Unlock()

	for _, f := range followers {
		f.Close()
	}

	switch s.mode {
	case ModeLive:
		s.mgr.Close()
	case ModeReplay:
		s.sched.Close()
	}

	if s.onClose != nil {
		s.onClose()
	}
	s.log.Info("session closed")
	return nil
}
