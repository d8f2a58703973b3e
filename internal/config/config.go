// Package config provides the configuration structure for the voice
// client.
package config

import (
	"fmt"
	"time"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Fallbacks applied when the TOML leaves a field unset.
const (
	DefaultBackendURL            = "http://localhost:8000"
	DefaultTimeoutSeconds        = 120
	DefaultHealthIntervalSeconds = 4
	DefaultArchiveClipBucketName = "CGX_CLIPS"
)

// BackendConfig holds the connection settings for the speech backend.
// The URL here is only the build-time default; a persisted preference
// overrides it at runtime.
type BackendConfig struct {
	URL                   string `toml:"url"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
	HealthIntervalSeconds int    `toml:"health_interval_seconds"`
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// HealthInterval returns the liveness polling interval as a duration.
func (b BackendConfig) HealthInterval() time.Duration {
	return time.Duration(b.HealthIntervalSeconds) * time.Second
}

// ArchiveConfig holds the settings for the shared clip archive. An empty
// URL disables archiving.
type ArchiveConfig struct {
	NATSURL    string `toml:"nats_url"`
	ClipBucket string `toml:"clip_bucket"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir  string `toml:"base_logs_dir"`
	SettingsPath string `toml:"settings_path"`
	ClipsDir     string `toml:"clips_dir"`
}

// Config is the root configuration structure.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Archive ArchiveConfig `toml:"archive"`
	Paths   PathsConfig   `toml:"paths"`
}

// Load loads the configuration for the voice client and fills in the
// defaults for anything the file leaves unset.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills in the documented fallbacks for unset fields. Load
// calls it automatically; it is exported for configurations assembled
// directly in tests.
func (c *Config) ApplyDefaults() {
	if c.Backend.URL == "" {
		c.Backend.URL = DefaultBackendURL
	}

	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.Backend.HealthIntervalSeconds <= 0 {
		c.Backend.HealthIntervalSeconds = DefaultHealthIntervalSeconds
	}

	if c.Archive.NATSURL != "" && c.Archive.ClipBucket == "" {
		c.Archive.ClipBucket = DefaultArchiveClipBucketName
	}
}
