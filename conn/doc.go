// Package conn maintains at most one live, authenticated streaming
// connection per monitored lab.
//
// The lifecycle is an explicit state machine
// (idle → connecting → open → closing → closed) rather than independent
// socket callbacks mutating flags, which makes the reconnect-vs-clean-close
// decision a pure function of the close code. A non-clean close schedules a
// reconnect (flat 5s by default, exponential with cap if configured); a
// clean close with code 1000 never does. While open, a keepalive ping goes
// out on a fixed period regardless of other traffic. Teardown closes with
// code 1000, cancels every pending timer, and is idempotent.
package conn
