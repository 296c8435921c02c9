package view

import (
	"sync"

	"github.com/lab-control/lcc/conn"
	"github.com/lab-control/lcc/protocol"
	"github.com/lab-control/lcc/state"
)

// ConnSource reports the state of the underlying connection.
type ConnSource interface {
	State() conn.State
}

// Live projects one monitored lab: connection indicator, lab status and the
// sorted container table. Row derivation is memoized on the reconciler's
// generation counter, so repeated reads between merges are cheap.
type Live struct {
	source ConnSource
	rec    *state.Reconciler

	mu     sync.Mutex
	cached []ContainerRow
	gen    uint64
}

// NewLive creates a view over a connection and its reconciler.
func NewLive(source ConnSource, rec *state.Reconciler) *Live {
	return &Live{source: source, rec: rec}
}

// Connected reports whether the socket is currently open. Reconnect windows
// read as disconnected.
func (v *Live) Connected() bool {
	return v.source.State() == conn.StateOpen
}

// Indicator returns a one-word connection label for the status line.
func (v *Live) Indicator() string {
	switch v.source.State() {
	case conn.StateOpen:
		return "live"
	case conn.StateConnecting:
		return "connecting"
	default:
		return "offline"
	}
}

// Status returns the lab-level status string from the latest snapshot.
func (v *Live) Status() string {
	return v.rec.Snapshot().Status
}

// Snapshot returns the latest immutable snapshot.
func (v *Live) Snapshot() *protocol.LabSnapshot {
	return v.rec.Snapshot()
}

// Containers returns the container table sorted by hostname.
func (v *Live) Containers() []ContainerRow {
	gen := v.rec.Generation()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cached == nil || gen != v.gen {
		v.cached = ContainerRows(v.rec.Snapshot())
		v.gen = gen
	}
	return v.cached
}
