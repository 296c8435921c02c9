package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultFile is the overlay file Load looks for in the working directory.
const DefaultFile = "lcc.yaml"

// Load merges Baseline() + LCC_TIMING_* env overrides + an optional lcc.yaml
// overlay, then validates the result.
func Load() (*Timing, error) {
	timing := Baseline()

	applyEnvOverrides(timing)

	if _, err := os.Stat(DefaultFile); err == nil {
		if err := applyFile(timing, DefaultFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DefaultFile, err)
		}
	}

	if err := Validate(timing); err != nil {
		return nil, fmt.Errorf("timing validation failed: %w", err)
	}

	return timing, nil
}

// LoadFile merges Baseline() + env overrides + the named overlay file.
func LoadFile(path string) (*Timing, error) {
	timing := Baseline()

	applyEnvOverrides(timing)

	if err := applyFile(timing, path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if err := Validate(timing); err != nil {
		return nil, fmt.Errorf("timing validation failed: %w", err)
	}

	return timing, nil
}

// applyEnvOverrides applies LCC_TIMING_* environment variables.
func applyEnvOverrides(timing *Timing) {
	if val := os.Getenv("LCC_TIMING_KEEPALIVE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			timing.KeepaliveInterval = d
		}
	}

	if val := os.Getenv("LCC_TIMING_RECONNECT_INITIAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			timing.ReconnectInitial = d
		}
	}

	if val := os.Getenv("LCC_TIMING_RECONNECT_MULTIPLIER"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			timing.ReconnectMultiplier = f
		}
	}

	if val := os.Getenv("LCC_TIMING_RECONNECT_MAX"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			timing.ReconnectMax = d
		}
	}

	if val := os.Getenv("LCC_TIMING_DIAL_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			timing.DialTimeout = d
		}
	}

	if val := os.Getenv("LCC_TIMING_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			timing.WriteTimeout = d
		}
	}

	if val := os.Getenv("LCC_TIMING_FETCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			timing.FetchTimeout = d
		}
	}

	if val := os.Getenv("LCC_TIMING_MIN_STEP_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			timing.MinStepDelay = d
		}
	}

	if val := os.Getenv("LCC_TIMING_LOG_BUFFER_LINES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			timing.LogBufferLines = n
		}
	}
}

// fileTiming is the YAML overlay shape. All fields are optional; durations
// are Go duration strings ("25s", "10ms").
type fileTiming struct {
	KeepaliveInterval   string   `yaml:"keepaliveInterval"`
	ReconnectInitial    string   `yaml:"reconnectInitial"`
	ReconnectMultiplier *float64 `yaml:"reconnectMultiplier"`
	ReconnectMax        string   `yaml:"reconnectMax"`
	DialTimeout         string   `yaml:"dialTimeout"`
	WriteTimeout        string   `yaml:"writeTimeout"`
	FetchTimeout        string   `yaml:"fetchTimeout"`
	MinStepDelay        string   `yaml:"minStepDelay"`
	LogBufferLines      *int     `yaml:"logBufferLines"`
}

func applyFile(timing *Timing, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overlay fileTiming
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}

	set := func(dst *time.Duration, raw string) error {
		if raw == "" {
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*dst = d
		return nil
	}

	if err := set(&timing.KeepaliveInterval, overlay.KeepaliveInterval); err != nil {
		return err
	}
	if err := set(&timing.ReconnectInitial, overlay.ReconnectInitial); err != nil {
		return err
	}
	if err := set(&timing.ReconnectMax, overlay.ReconnectMax); err != nil {
		return err
	}
	if err := set(&timing.DialTimeout, overlay.DialTimeout); err != nil {
		return err
	}
	if err := set(&timing.WriteTimeout, overlay.WriteTimeout); err != nil {
		return err
	}
	if err := set(&timing.FetchTimeout, overlay.FetchTimeout); err != nil {
		return err
	}
	if err := set(&timing.MinStepDelay, overlay.MinStepDelay); err != nil {
		return err
	}

	if overlay.ReconnectMultiplier != nil {
		timing.ReconnectMultiplier = *overlay.ReconnectMultiplier
	}
	if overlay.LogBufferLines != nil {
		timing.LogBufferLines = *overlay.LogBufferLines
	}

	return nil
}
