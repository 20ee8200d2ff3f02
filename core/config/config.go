// Package config loads optional YAML configuration for the CLI. Every field
// has a usable default; a missing file is not an error, flags override file
// values.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Validation errors returned by Config.Validate.
var (
	// ErrInvalidConcurrency is returned when the URL concurrency bound is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidRenderSessions is returned when the render session bound
	// is not positive.
	ErrInvalidRenderSessions = errors.New("invalid render_sessions: must be positive")
)

// Config holds the CLI defaults that can be set from a YAML file.
type Config struct {
	// Algorithm is the hash algorithm name (default sha256).
	Algorithm string `yaml:"algorithm"`
	// Timeout is the HTTP fetch timeout as a Go duration string.
	Timeout string `yaml:"timeout"`
	// RenderEndpoint is the headless-browser render service URL. Empty
	// selects the static renderer (no script execution).
	RenderEndpoint string `yaml:"render_endpoint"`
	// RenderTimeout is the per-render timeout as a Go duration string.
	RenderTimeout string `yaml:"render_timeout"`
	// RenderSessions bounds concurrent rendering sessions.
	RenderSessions int `yaml:"render_sessions"`
	// Concurrency bounds how many URLs are hashed at once.
	Concurrency int `yaml:"concurrency"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		Algorithm:      "sha256",
		Timeout:        "30s",
		RenderTimeout:  "30s",
		RenderSessions: 4,
		Concurrency:    4,
	}
}

// Load reads a YAML config file over the defaults. An empty path or a
// missing file returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and duration syntax.
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.RenderSessions <= 0 {
		return ErrInvalidRenderSessions
	}
	if _, err := c.FetchTimeout(); err != nil {
		return err
	}
	if _, err := c.RenderTimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// FetchTimeout parses the fetch timeout, defaulting when unset.
func (c *Config) FetchTimeout() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout, 30*time.Second)
}

// RenderTimeoutDuration parses the render timeout, defaulting when unset.
func (c *Config) RenderTimeoutDuration() (time.Duration, error) {
	return parseDuration("render_timeout", c.RenderTimeout, 30*time.Second)
}

func parseDuration(field, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
