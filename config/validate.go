package config

import "fmt"

// Validate checks a timing set for internal consistency.
func Validate(timing *Timing) error {
	if timing == nil {
		return fmt.Errorf("timing configuration is nil")
	}

	if timing.KeepaliveInterval <= 0 {
		return fmt.Errorf("keepalive interval must be positive, got %v", timing.KeepaliveInterval)
	}

	if timing.ReconnectInitial <= 0 {
		return fmt.Errorf("reconnect initial delay must be positive, got %v", timing.ReconnectInitial)
	}
	if timing.ReconnectMultiplier < 1.0 {
		return fmt.Errorf("reconnect multiplier must be >= 1.0, got %v", timing.ReconnectMultiplier)
	}
	if timing.ReconnectMax < timing.ReconnectInitial {
		return fmt.Errorf("reconnect max %v is below initial delay %v", timing.ReconnectMax, timing.ReconnectInitial)
	}

	if timing.DialTimeout <= 0 {
		return fmt.Errorf("dial timeout must be positive, got %v", timing.DialTimeout)
	}
	if timing.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", timing.WriteTimeout)
	}
	if timing.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %v", timing.FetchTimeout)
	}

	if timing.MinStepDelay <= 0 {
		return fmt.Errorf("minimum step delay must be positive, got %v", timing.MinStepDelay)
	}

	if timing.LogBufferLines <= 0 {
		return fmt.Errorf("log buffer capacity must be positive, got %d", timing.LogBufferLines)
	}

	return nil
}
