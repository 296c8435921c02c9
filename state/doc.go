// Package state folds the inbound message stream into a single canonical
// lab snapshot.
//
// An initial_state message replaces the whole snapshot; a lab_update merges
// per field, last write wins. Every accepted message produces a new immutable
// snapshot, so readers can hold a snapshot across a merge without copying.
package state
