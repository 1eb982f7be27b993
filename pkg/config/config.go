// Package config loads the server configuration file. The specification
// itself is loaded separately through pkg/document; this file only carries
// process-level settings and global chaos defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// Config is the server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":4280".
	Addr string `yaml:"addr" json:"addr"`

	// Spec is the path to the API specification file.
	Spec string `yaml:"spec" json:"spec"`

	// Logging configures the operational logger.
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Chaos holds global latency/flakiness defaults. Per-route extensions
	// in the specification preempt these for the routes that declare them.
	Chaos ChaosConfig `yaml:"chaos" json:"chaos"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ChaosConfig holds global chaos defaults.
type ChaosConfig struct {
	// Delay is a Go duration string applied to routes without their own
	// delay, e.g. "150ms".
	Delay string `yaml:"delay" json:"delay"`

	// Flaky configures failure injection for routes without their own.
	Flaky *FlakyConfig `yaml:"flaky" json:"flaky"`
}

// FlakyConfig configures global failure injection.
type FlakyConfig struct {
	Probability float64 `yaml:"probability" json:"probability"`
	Status      int     `yaml:"status" json:"status"`
}

// Default returns the configuration defaults used when no file is given.
func Default() Config {
	return Config{
		Addr: ":4280",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ParsedDelay returns the global delay as a duration, zero when unset.
func (c ChaosConfig) ParsedDelay() (time.Duration, error) {
	if c.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 0, fmt.Errorf("%w: chaos delay %q: %v", ErrInvalidConfig, c.Delay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: chaos delay %q is negative", ErrInvalidConfig, c.Delay)
	}
	return d, nil
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if _, err := c.Chaos.ParsedDelay(); err != nil {
		return err
	}
	if f := c.Chaos.Flaky; f != nil {
		if f.Probability < 0 || f.Probability > 1 {
			return fmt.Errorf("%w: flaky probability %v outside [0, 1]", ErrInvalidConfig, f.Probability)
		}
		if f.Status != 0 && (f.Status < 100 || f.Status > 599) {
			return fmt.Errorf("%w: flaky status %d is not a valid HTTP status", ErrInvalidConfig, f.Status)
		}
	}
	return nil
}

// LoadFromFile reads a Config from a YAML or JSON file. YAML is a superset
// of JSON, so both formats go through the YAML decoder. Returns wrapped
// errors for common failure cases.
func LoadFromFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}
