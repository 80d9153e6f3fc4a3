// Package config provides loading, defaulting and validation of the executor
// configuration. The configuration is TOML and covers the event repository
// endpoint, the artifact and context links attached to every notification,
// the checkout timeout and the lifecycle pattern table.
package config

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/eiffel-community/etos-test-runner/internal/common"
)

// Error definitions for the config package
var (
	ErrInvalidConfigPath  = errors.New("invalid config file path")
	ErrMissingEventURL    = errors.New("event_repository_url is required")
	ErrMissingArtifactID  = errors.New("artifact_id is required")
	ErrInvalidTimeout     = errors.New("checkout_timeout must be between 1 and 86400 seconds")
	ErrInvalidExecutorRef = errors.New("executor_path cannot be empty")
)

const (
	// DefaultCheckoutTimeout is the checkout wall-clock budget in seconds
	DefaultCheckoutTimeout = 60

	// MaxCheckoutTimeout caps the configurable checkout budget (24 hours)
	MaxCheckoutTimeout = 86400

	// DefaultExecutorPath is the executor entry point written into the
	// test directory
	DefaultExecutorPath = "./executor.sh"
)

// Config holds the executor settings
type Config struct {
	// EventRepositoryURL is the endpoint lifecycle notifications are
	// posted to
	EventRepositoryURL string `toml:"event_repository_url"`

	// ArtifactID identifies the IUT artifact linked from triggered events
	ArtifactID string `toml:"artifact_id"`

	// Context is the activity context linked from every event
	Context string `toml:"context"`

	// CheckoutTimeout bounds the checkout procedure, in seconds
	CheckoutTimeout int `toml:"checkout_timeout"`

	// ExecutorPath is the entry point prepended to the test command
	ExecutorPath string `toml:"executor_path"`

	// LogLevel selects the slog level (debug, info, warn, error)
	LogLevel string `toml:"log_level"`

	// Patterns overrides entries of the default lifecycle pattern table
	Patterns map[string]string `toml:"patterns"`
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	return &Config{
		CheckoutTimeout: DefaultCheckoutTimeout,
		ExecutorPath:    DefaultExecutorPath,
		LogLevel:        "info",
	}
}

// Loader handles loading and validating configurations
type Loader struct {
	fs common.FileSystem
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return NewLoaderWithFS(common.NewDefaultFileSystem())
}

// NewLoaderWithFS creates a new config loader with a custom FileSystem
func NewLoaderWithFS(fs common.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// LoadConfig loads, defaults and validates the configuration at path
func (l *Loader) LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, ErrInvalidConfigPath
	}
	content, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return l.Parse(content)
}

// Parse decodes TOML content into a defaulted, validated configuration
func (l *Loader) Parse(content []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency
func (c *Config) Validate() error {
	if c.EventRepositoryURL == "" {
		return ErrMissingEventURL
	}
	if c.ArtifactID == "" {
		return ErrMissingArtifactID
	}
	if c.CheckoutTimeout < 1 || c.CheckoutTimeout > MaxCheckoutTimeout {
		return fmt.Errorf("%w: got %d", ErrInvalidTimeout, c.CheckoutTimeout)
	}
	if c.ExecutorPath == "" {
		return ErrInvalidExecutorRef
	}
	return nil
}
