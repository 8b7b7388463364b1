// Package config provides the snapwatch configuration surface.
//
// Configuration is a single flat structure with named fields. Precedence,
// lowest to highest: built-in defaults, YAML config file, SNAPWATCH_*
// environment variables, command-line flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/snapwatch/snapwatch/internal/errors"
)

// DefaultExtensions is the default accepted image extension set.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp"}

// Config is the complete snapwatch configuration.
type Config struct {
	// WatchDir is the directory monitored for new screenshots.
	// Created if absent before watching begins.
	WatchDir string `yaml:"watch_dir"`

	// Extensions is the accepted file extension set, matched case-insensitively.
	// Fixed once the watcher starts.
	Extensions []string `yaml:"extensions"`

	// PollInterval is the cadence of the stability size polls.
	PollInterval Duration `yaml:"poll_interval"`

	// StabilityTimeout is the soft deadline for a stability check,
	// measured from first observation of the candidate file.
	StabilityTimeout Duration `yaml:"stability_timeout"`

	// EventBufferSize is the ready-event channel buffer size.
	EventBufferSize int `yaml:"event_buffer_size"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// SingleInstance enables the file-lock guard against concurrent monitors.
	SingleInstance bool `yaml:"single_instance"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		WatchDir:         DefaultWatchDir(),
		Extensions:       append([]string(nil), DefaultExtensions...),
		PollInterval:     Duration(80 * time.Millisecond),
		StabilityTimeout: Duration(2500 * time.Millisecond),
		EventBufferSize:  64,
		LogLevel:         "info",
		SingleInstance:   true,
	}
}

// DefaultWatchDir returns the platform screenshots folder.
// Falls back to the working directory if the home directory is unavailable.
func DefaultWatchDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures", "Screenshots")
}

// DefaultConfigPath returns the default config file location
// (~/.snapwatch/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".snapwatch", "config.yaml")
	}
	return filepath.Join(home, ".snapwatch", "config.yaml")
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped silently when path is the default location and absent), then
// SNAPWATCH_* environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if err := cfg.loadFromFile(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile merges the YAML file at path into the config.
// A missing file is an error only when the path was given explicitly.
func (c *Config) loadFromFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Newf(errors.ErrCodeConfigNotFound, err, "config file not readable: %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Newf(errors.ErrCodeConfigInvalid, err, "config file not valid YAML: %s", path)
	}
	return nil
}

// Save writes the configuration as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides applies SNAPWATCH_* environment variable overrides.
// Malformed values are rejected rather than silently ignored.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SNAPWATCH_WATCH_DIR"); v != "" {
		c.WatchDir = v
	}
	if v := os.Getenv("SNAPWATCH_EXTENSIONS"); v != "" {
		c.Extensions = splitExtensions(v)
	}
	if v := os.Getenv("SNAPWATCH_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Newf(errors.ErrCodeConfigInvalid, err,
				"SNAPWATCH_POLL_INTERVAL %q is not a duration", v).
				WithDetail("field", "poll_interval")
		}
		c.PollInterval = Duration(d)
	}
	if v := os.Getenv("SNAPWATCH_STABILITY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Newf(errors.ErrCodeConfigInvalid, err,
				"SNAPWATCH_STABILITY_TIMEOUT %q is not a duration", v).
				WithDetail("field", "stability_timeout")
		}
		c.StabilityTimeout = Duration(d)
	}
	if v := os.Getenv("SNAPWATCH_EVENT_BUFFER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Newf(errors.ErrCodeConfigInvalid, err,
				"SNAPWATCH_EVENT_BUFFER_SIZE %q is not an integer", v).
				WithDetail("field", "event_buffer_size")
		}
		c.EventBufferSize = n
	}
	if v := os.Getenv("SNAPWATCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.WatchDir == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "watch_dir must not be empty", nil).
			WithDetail("field", "watch_dir")
	}
	if len(c.Extensions) == 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "extensions must not be empty", nil).
			WithDetail("field", "extensions")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf(errors.ErrCodeConfigInvalid, nil,
				"extension %q must start with a dot", ext).
				WithDetail("field", "extensions")
		}
	}
	if c.PollInterval <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "poll_interval must be positive", nil).
			WithDetail("field", "poll_interval")
	}
	if c.StabilityTimeout <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "stability_timeout must be positive", nil).
			WithDetail("field", "stability_timeout")
	}
	if c.StabilityTimeout < c.PollInterval {
		return errors.New(errors.ErrCodeConfigInvalid, "stability_timeout must be at least poll_interval", nil).
			WithDetail("field", "stability_timeout")
	}
	if c.EventBufferSize <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "event_buffer_size must be positive", nil).
			WithDetail("field", "event_buffer_size")
	}
	return nil
}

// splitExtensions parses a comma-separated extension list,
// lowercasing and trimming each entry.
func splitExtensions(s string) []string {
	parts := strings.Split(s, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		exts = append(exts, p)
	}
	return exts
}
