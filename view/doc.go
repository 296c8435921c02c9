// Package view derives display-ready projections from live lab state and
// replay progress. Views never mutate the state they project; they read the
// immutable snapshots the reconciler publishes and the cursor the scheduler
// reports.
package view
