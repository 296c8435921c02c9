package logstream

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lab-control/lcc/clock"
	"github.com/lab-control/lcc/config"
	"github.com/lab-control/lcc/conn"
	"github.com/lab-control/lcc/protocol"
)

// FollowerOptions configures a Follower. Endpoint, LabID and Hostname are
// required; the socket options mirror conn.Options.
type FollowerOptions struct {
	Endpoint string
	LabID    string
	Hostname string
	Token    string

	Timing *config.Timing
	Clock  clock.Clock
	Dialer conn.Dialer

	// OnLine observes each buffered line as it arrives. Optional; the
	// buffer retains lines either way.
	OnLine func(line string)

	// OnState observes the underlying connection lifecycle.
	OnState func(conn.State)

	Log *logrus.Entry
}

// Follower streams one container's log output into a bounded buffer. The
// underlying socket reconnects and keeps alive exactly like the lab monitor
// socket; only the endpoint and the frame handling differ.
type Follower struct {
	hostname string
	buf      *Buffer
	mgr      *conn.Manager
	log      *logrus.Entry
}

// NewFollower creates a follower for one container. It validates the token
// but does not connect; call Follow to start.
func NewFollower(opts FollowerOptions) (*Follower, error) {
	if opts.LabID == "" {
		return nil, fmt.Errorf("lab id is required")
	}
	if opts.Hostname == "" {
		return nil, fmt.Errorf("container hostname is required")
	}
	if opts.Timing == nil {
		opts.Timing = config.Baseline()
	}
	if opts.Log == nil {
		opts.Log = logrus.WithFields(logrus.Fields{
			"component": "logstream",
			"host":      opts.Hostname,
		})
	}

	f := &Follower{
		hostname: opts.Hostname,
		buf:      NewBuffer(opts.Timing.LogBufferLines),
		log:      opts.Log,
	}

	mgr, err := conn.NewManager(conn.Options{
		URL:       conn.LogURL(opts.Endpoint, opts.LabID, opts.Hostname, opts.Token),
		Token:     opts.Token,
		Timing:    opts.Timing,
		Clock:     opts.Clock,
		Dialer:    opts.Dialer,
		OnMessage: func(msg protocol.Message) { f.handle(msg, opts.OnLine) },
		OnState:   opts.OnState,
		Log:       opts.Log,
	})
	if err != nil {
		return nil, err
	}
	f.mgr = mgr
	return f, nil
}

// Follow starts streaming. It returns immediately; lines accumulate in the
// buffer as they arrive.
func (f *Follower) Follow() error {
	return f.mgr.Open()
}

// Lines returns the buffered lines, oldest first.
func (f *Follower) Lines() []string {
	return f.buf.Lines()
}

// Dropped returns how many lines the buffer has evicted.
func (f *Follower) Dropped() int64 {
	return f.buf.Dropped()
}

// State returns the state of the underlying connection.
func (f *Follower) State() conn.State {
	return f.mgr.State()
}

// Close tears the stream down. Idempotent.
func (f *Follower) Close() error {
	return f.mgr.Close()
}

// handle routes inbound frames. Only log frames carry payload; everything
// else on this socket is keepalive traffic or noise.
func (f *Follower) handle(msg protocol.Message, onLine func(string)) {
	switch msg.Type {
	case protocol.TypeLog:
		f.buf.Append(msg.Line)
		if onLine != nil {
			onLine(msg.Line)
		}
	case protocol.TypeError:
		if !msg.Local {
			f.log.WithField("detail", msg.ErrText).Warn("log stream reported an error")
		}
	}
}
