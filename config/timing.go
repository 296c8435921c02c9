package config

import "time"

// Timing holds every interval and bound the client schedules against.
type Timing struct {
	// Keepalive probe cadence while a socket is open.
	KeepaliveInterval time.Duration

	// Reconnect policy after a non-clean close. A multiplier of 1.0 is the
	// reference flat delay; raising it enables exponential backoff capped at
	// ReconnectMax.
	ReconnectInitial    time.Duration
	ReconnectMultiplier float64
	ReconnectMax        time.Duration

	// Socket establishment and write bounds.
	DialTimeout  time.Duration
	WriteTimeout time.Duration

	// Historical playback fetch bound.
	FetchTimeout time.Duration

	// Minimum delay between consecutive playback steps. Guarantees forward
	// progress and bounds the wake-up rate at extreme speeds or zero-delta
	// timestamps.
	MinStepDelay time.Duration

	// Live-log ring buffer capacity, in lines. Oldest lines are dropped
	// once the buffer is full.
	LogBufferLines int
}

// Baseline returns the reference timing values.
func Baseline() *Timing {
	return &Timing{
		KeepaliveInterval: 25 * time.Second,

		ReconnectInitial:    5 * time.Second,
		ReconnectMultiplier: 1.0,
		ReconnectMax:        60 * time.Second,

		DialTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,

		FetchTimeout: 30 * time.Second,

		MinStepDelay: 10 * time.Millisecond,

		LogBufferLines: 500,
	}
}
