// Package config loads the acquisition tool's configuration from a TOML
// file. Fields omitted from the file keep their defaults, so partial
// configs are safe.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the CLI settings for one meter.
type Config struct {
	// Port is the serial device path. Empty means enumerate and prompt.
	Port string `toml:"port"`
	// BaudRate overrides the meter's native 2400 baud when set.
	BaudRate int `toml:"baud_rate"`
	// Name tags every measurement from this meter.
	Name string `toml:"name"`
	// HistoryDepth is the frame history capacity.
	HistoryDepth int `toml:"history_depth"`
	// PollInterval is the acquisition poll interval as a duration string
	// like "50ms".
	PollInterval string `toml:"poll_interval"`
	// Samples is how many readings the CLI collects before exiting.
	Samples int `toml:"samples"`
	// SampleInterval is the delay between CLI reads, like "100ms".
	SampleInterval string `toml:"sample_interval"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Name:           "TP8236",
		HistoryDepth:   10,
		PollInterval:   "50ms",
		Samples:        100,
		SampleInterval: "100ms",
	}
}

// Load reads a TOML config from path on top of the defaults and validates
// the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and duration syntax.
func (c Config) Validate() error {
	if c.BaudRate < 0 {
		return fmt.Errorf("baud_rate must not be negative, got %d", c.BaudRate)
	}
	if c.HistoryDepth <= 0 || c.HistoryDepth > 1000 {
		return fmt.Errorf("history_depth must be between 1 and 1000, got %d", c.HistoryDepth)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	}
	if _, err := c.PollDuration(); err != nil {
		return err
	}
	if _, err := c.SampleDuration(); err != nil {
		return err
	}
	return nil
}

// PollDuration parses the poll interval.
func (c Config) PollDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid poll_interval %q: %w", c.PollInterval, err)
	}
	if d < time.Millisecond {
		return 0, fmt.Errorf("poll_interval %q too short: minimum 1ms", c.PollInterval)
	}
	return d, nil
}

// SampleDuration parses the sample interval.
func (c Config) SampleDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.SampleInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid sample_interval %q: %w", c.SampleInterval, err)
	}
	return d, nil
}
