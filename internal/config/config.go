// Package config holds the driver configuration. Values come from an
// optional yaml file overlaid on defaults, with the log level additionally
// overridable through the ASL_LOG_LEVEL environment variable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all driver settings.
type Config struct {
	// Agents is the number of copies of the parsed program to run.
	Agents int `yaml:"agents"`

	// MaxSteps bounds the number of full round-robin sweeps; zero means
	// unbounded.
	MaxSteps int `yaml:"max_steps"`

	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// WatchConfig configures the source file watcher.
type WatchConfig struct {
	// Debounce suppresses rapid re-parses on editor save bursts.
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures the zap logger built by the driver.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Agents:   1,
		MaxSteps: 0,
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads the yaml file at path over the defaults. An empty path returns
// the defaults. The ASL_LOG_LEVEL environment variable, when set, overrides
// the configured log level.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if level := os.Getenv("ASL_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Agents < 1 {
		return fmt.Errorf("agents must be at least 1, got %d", c.Agents)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// DebounceDuration parses the debounce setting.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch debounce %q: %w", w.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch debounce must not be negative, got %s", w.Debounce)
	}
	return d, nil
}
