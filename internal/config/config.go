package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds ambient process configuration. The per-app launcher record
// is not environment config; it is loaded from the launcher store.
type Config struct {
	Logging LogConfig
	Storage StorageConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"WEBAPPS_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"WEBAPPS_LOG_DEV" default:"false"`
}

// StorageConfig holds filesystem locations used by the host.
type StorageConfig struct {
	// DataDir overrides the launcher record directory. Empty means the
	// XDG default under the user's data home.
	DataDir string `envconfig:"WEBAPPS_DATA_DIR" default:""`
	// DownloadDir overrides where engine downloads land. Empty means
	// XDG_DOWNLOAD_DIR or ~/Downloads.
	DownloadDir string `envconfig:"WEBAPPS_DOWNLOAD_DIR" default:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// ResolveDownloadDir returns the effective download directory.
func (c *Config) ResolveDownloadDir() string {
	if c.Storage.DownloadDir != "" {
		return c.Storage.DownloadDir
	}
	if dir := os.Getenv("XDG_DOWNLOAD_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Downloads")
}
