// Package clock abstracts wall-clock time and one-shot timers so that
// components owning timers (connection keepalive, playback scheduling) can be
// driven deterministically in tests.
//
// The System clock delegates to the time package. The Manual clock only moves
// when Advance is called and fires due timers synchronously, in time order.
package clock
