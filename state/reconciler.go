package state

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lab-control/lcc/protocol"
)

// Reconciler produces the authoritative LabSnapshot for one monitored lab
// from a stream of full and partial updates.
//
// Messages are applied one at a time, to completion, in arrival order; the
// connection's read loop is the only writer. Published snapshots are never
// mutated afterwards; each accepted message swaps in a freshly built one, so
// Snapshot() results stay valid indefinitely.
type Reconciler struct {
	mu         sync.RWMutex
	labID      string
	snapshot   *protocol.LabSnapshot
	generation uint64
	log        *logrus.Entry
}

// NewReconciler creates a reconciler for the given lab. The snapshot starts
// empty; the first accepted initial_state populates it.
func NewReconciler(labID string) *Reconciler {
	return &Reconciler{
		labID:    labID,
		snapshot: &protocol.LabSnapshot{LabID: labID},
		log:      logrus.WithFields(logrus.Fields{"component": "reconciler", "lab": labID}),
	}
}

// Apply folds one decoded message into the snapshot. It reports whether the
// message caused a merge. Messages for other labs are dropped silently (stale
// traffic from a superseded connection); message types the reconciler does
// not own are ignored.
func (r *Reconciler) Apply(msg protocol.Message) bool {
	switch msg.Type {
	case protocol.TypeInitialState:
		return r.replace(msg.Snapshot)
	case protocol.TypeLabUpdate:
		return r.merge(msg.Update)
	default:
		return false
	}
}

// Snapshot returns the current snapshot. The returned value is immutable;
// callers must not modify it.
func (r *Reconciler) Snapshot() *protocol.LabSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Generation returns the number of accepted merges. Views use it to memoize
// derivations.
func (r *Reconciler) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// replace handles initial_state: the server is authoritative for the full
// state at this instant, so all prior container and network entries drop.
func (r *Reconciler) replace(incoming *protocol.LabSnapshot) bool {
	if incoming == nil {
		return false
	}
	if incoming.LabID != r.labID {
		r.log.WithField("staleLab", incoming.LabID).Debug("dropping initial_state for superseded lab")
		return false
	}

	fresh := &protocol.LabSnapshot{
		LabID:      incoming.LabID,
		Status:     incoming.Status,
		StartedAt:  incoming.StartedAt,
		Networks:   append([]protocol.Network(nil), incoming.Networks...),
		Containers: append([]protocol.Container(nil), incoming.Containers...),
	}

	r.mu.Lock()
	r.snapshot = fresh
	r.generation++
	r.mu.Unlock()
	return true
}

// merge handles lab_update: fields present in the message overwrite the
// matching fields of the existing entry, fields absent stay untouched, and a
// patch for an unknown hostname creates a new container.
func (r *Reconciler) merge(update *protocol.LabUpdate) bool {
	if update == nil {
		return false
	}
	if update.LabID != "" && update.LabID != r.labID {
		r.log.WithField("staleLab", update.LabID).Debug("dropping lab_update for superseded lab")
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.snapshot
	fresh := &protocol.LabSnapshot{
		LabID:      current.LabID,
		Status:     current.Status,
		StartedAt:  current.StartedAt,
		Networks:   current.Networks,
		Containers: append([]protocol.Container(nil), current.Containers...),
	}

	if update.Status != nil {
		fresh.Status = *update.Status
	}
	if update.Networks != nil {
		fresh.Networks = append([]protocol.Network(nil), update.Networks...)
	}

	for _, patch := range update.Containers {
		if patch.Hostname == "" {
			continue
		}
		idx := indexOf(fresh.Containers, patch.Hostname)
		if idx < 0 {
			fresh.Containers = append(fresh.Containers, protocol.Container{Hostname: patch.Hostname})
			idx = len(fresh.Containers) - 1
		}
		applyPatch(&fresh.Containers[idx], patch)
	}

	r.snapshot = fresh
	r.generation++
	return true
}

func indexOf(containers []protocol.Container, hostname string) int {
	for i := range containers {
		if containers[i].Hostname == hostname {
			return i
		}
	}
	return -1
}

func applyPatch(c *protocol.Container, patch protocol.ContainerPatch) {
	if patch.Image != nil {
		c.Image = *patch.Image
	}
	if patch.IPAddress != nil {
		c.IPAddress = *patch.IPAddress
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Health != nil {
		c.Health = *patch.Health
	}
	if patch.Resources != nil {
		c.Resources = *patch.Resources
	}
}
