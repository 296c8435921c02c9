package conn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lab-control/lcc/auth"
	"github.com/lab-control/lcc/clock"
	"github.com/lab-control/lcc/config"
	"github.com/lab-control/lcc/protocol"
)

// Options configures a Manager. URL is required; it is built with MonitorURL
// or LogURL. Token is checked once before the first dial.
//
// Callbacks are invoked from the manager's own goroutines and must not call
// back into the Manager.
type Options struct {
	URL   string
	Token string

	Timing *config.Timing
	Clock  clock.Clock
	Dialer Dialer

	// OnMessage receives every decoded inbound frame, including the local
	// error messages the codec synthesizes for malformed frames.
	OnMessage func(protocol.Message)

	// OnState observes lifecycle transitions.
	OnState func(State)

	// OnFault is reported exactly once per configuration error discovered
	// after Open returned (an auth rejection during the handshake).
	OnFault func(error)

	// Log fields identify the socket in shared logs.
	Log *logrus.Entry
}

// Manager owns one streaming socket: it establishes it, authenticates it,
// re-establishes it on failure, and emits keepalive probes while it is open.
type Manager struct {
	url    string
	timing *config.Timing
	clk    clock.Clock
	dialer Dialer
	log    *logrus.Entry

	onMessage func(protocol.Message)
	onState   func(State)
	onFault   func(error)

	mu        sync.Mutex
	state     State
	sock      Socket
	keepalive clock.Timer
	reconnect clock.Timer
	retry     backoff.BackOff
	gen       uint64
	closed    bool
}

// NewManager validates the options and the bearer token. A missing or
// visibly expired token fails here, once, without starting anything.
func NewManager(opts Options) (*Manager, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("endpoint URL is required")
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
	if opts.Dialer == nil {
		opts.Dialer = &WebsocketDialer{HandshakeTimeout: opts.Timing.DialTimeout}
	}
	if opts.Log == nil {
		opts.Log = logrus.WithField("component", "conn")
	}

	if err := auth.CheckToken(opts.Token, opts.Clock.Now()); err != nil {
		return nil, err
	}

	return &Manager{
		url:       opts.URL,
		timing:    opts.Timing,
		clk:       opts.Clock,
		dialer:    opts.Dialer,
		log:       opts.Log,
		onMessage: opts.OnMessage,
		onState:   opts.OnState,
		onFault:   opts.OnFault,
		retry:     newRetryPolicy(opts.Timing),
		state:     StateIdle,
	}, nil
}

// newRetryPolicy maps the timing configuration onto a backoff policy. The
// reference behavior is a flat delay; a multiplier above 1.0 selects
// exponential backoff capped at ReconnectMax.
func newRetryPolicy(timing *config.Timing) backoff.BackOff {
	if timing.ReconnectMultiplier <= 1.0 {
		return backoff.NewConstantBackOff(timing.ReconnectInitial)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = timing.ReconnectInitial
	policy.Multiplier = timing.ReconnectMultiplier
	policy.MaxInterval = timing.ReconnectMax
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0 // the session runs until explicitly closed
	policy.Reset()
	return policy
}

// Open starts the connection attempt. It returns immediately; progress is
// observable through OnState. Only one Open per Manager lifetime.
func (m *Manager) Open() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.state != StateIdle {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	gen := m.gen
	m.setStateLocked(StateConnecting)
	m.mu.Unlock()
	m.emit(StateConnecting)

	go m.dial(gen)
	return nil
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close tears the connection down with close code 1000 and cancels the
// keepalive and reconnect timers. No timer fires after Close returns. It is
// idempotent; a second call is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.gen++
	m.stopTimersLocked()
	sock := m.sock
	m.sock = nil
	m.setStateLocked(StateClosing)
	m.mu.Unlock()
	m.emit(StateClosing)

	if sock != nil {
		deadline := time.Now().Add(m.timing.WriteTimeout)
		sock.SetWriteDeadline(deadline)
		// Best effort: the peer may already be gone.
		sock.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		sock.Close()
	}

	m.mu.Lock()
	m.setStateLocked(StateClosed)
	m.mu.Unlock()
	m.emit(StateClosed)
	return nil
}

// dial runs one connection attempt. gen guards against results arriving
// after teardown.
func (m *Manager) dial(gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timing.DialTimeout)
	defer cancel()

	sock, resp, err := m.dialer.Dial(ctx, m.url)

	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		if sock != nil {
			sock.Close()
		}
		return
	}

	if err != nil {
		if isAuthRejection(resp) {
			m.setStateLocked(StateClosed)
			m.mu.Unlock()
			m.emit(StateClosed)
			m.log.WithField("status", resp.StatusCode).Error("handshake rejected, not retrying")
			m.fault(fmt.Errorf("%w: %v", ErrAuthRejected, err))
			return
		}

		m.setStateLocked(StateClosed)
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		m.emit(StateClosed)
		m.log.WithError(err).Warn("dial failed, reconnect scheduled")
		return
	}

	m.sock = sock
	m.retry.Reset()
	m.setStateLocked(StateOpen)
	m.scheduleKeepaliveLocked()
	m.mu.Unlock()
	m.emit(StateOpen)

	go m.readLoop(sock)
}

// readLoop delivers inbound frames in arrival order until the socket fails.
func (m *Manager) readLoop(sock Socket) {
	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			m.handleDisconnect(sock, err)
			return
		}

		msg := protocol.Decode(data)
		if msg.Local {
			m.log.WithField("detail", msg.ErrText).Warn("dropping malformed frame")
		}
		if m.onMessage != nil {
			m.onMessage(msg)
		}
	}
}

// handleDisconnect reacts to a socket-level failure or peer close. The close
// code decides: 1000 is a clean close and ends the session; anything else
// schedules a reconnect.
func (m *Manager) handleDisconnect(sock Socket, err error) {
	m.mu.Lock()
	if m.closed || sock != m.sock {
		// Teardown or a newer socket already superseded this loop.
		m.mu.Unlock()
		return
	}

	m.stopTimersLocked()
	m.sock = nil
	sock.Close()

	clean := false
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
		clean = true
	}

	m.setStateLocked(StateClosing)
	m.setStateLocked(StateClosed)
	if !clean {
		m.scheduleReconnectLocked()
	}
	m.mu.Unlock()

	m.emit(StateClosing)
	m.emit(StateClosed)

	if clean {
		m.log.Info("peer closed cleanly")
	} else {
		m.log.WithError(err).Warn("connection lost, reconnect scheduled")
	}
}

// scheduleReconnectLocked arms the single reconnect timer. Caller holds mu.
func (m *Manager) scheduleReconnectLocked() {
	delay := m.retry.NextBackOff()
	if delay == backoff.Stop {
		delay = m.timing.ReconnectMax
	}

	m.reconnect = m.clk.AfterFunc(delay, m.reattempt)
}

func (m *Manager) reattempt() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.reconnect = nil
	gen := m.gen
	m.setStateLocked(StateConnecting)
	m.mu.Unlock()
	m.emit(StateConnecting)

	go m.dial(gen)
}

// scheduleKeepaliveLocked arms the next keepalive probe. Caller holds mu.
func (m *Manager) scheduleKeepaliveLocked() {
	m.keepalive = m.clk.AfterFunc(m.timing.KeepaliveInterval, m.probe)
}

// probe sends one ping and arms the next probe. The cadence is fixed and
// independent of other traffic; only hard socket errors count as failures.
func (m *Manager) probe() {
	m.mu.Lock()
	if m.closed || m.state != StateOpen || m.sock == nil {
		m.mu.Unlock()
		return
	}
	sock := m.sock
	m.scheduleKeepaliveLocked()
	m.mu.Unlock()

	sock.SetWriteDeadline(time.Now().Add(m.timing.WriteTimeout))
	if err := sock.WriteMessage(websocket.TextMessage, protocol.EncodePing()); err != nil {
		m.log.WithError(err).Warn("keepalive write failed")
		// Unblocks the read loop, which owns the reconnect decision.
		sock.Close()
	}
}

// stopTimersLocked cancels the keepalive and reconnect timers. Caller holds
// mu. Cancel before discarding the handle: a pending fire after teardown is
// the bug class this forecloses.
func (m *Manager) stopTimersLocked() {
	if m.keepalive != nil {
		m.keepalive.Stop()
		m.keepalive = nil
	}
	if m.reconnect != nil {
		m.reconnect.Stop()
		m.reconnect = nil
	}
}

func (m *Manager) setStateLocked(to State) {
	if m.state == to {
		return
	}
	m.log.WithFields(logrus.Fields{"from": m.state.String(), "to": to.String()}).Debug("connection state")
	m.state = to
}

func (m *Manager) emit(s State) {
	if m.onState != nil {
		m.onState(s)
	}
}

func (m *Manager) fault(err error) {
	if m.onFault != nil {
		m.onFault(err)
	}
}

func isAuthRejection(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden
}
