// Package logstream follows the live log output of a single container over
// its streaming endpoint and retains the most recent lines in a bounded
// buffer. When the buffer is full the oldest line is dropped; memory use is
// fixed regardless of how chatty the container is.
package logstream
