// Package config holds client configuration resolved from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds settings for the civictrack CLI. Flags override these; the
// environment overrides the defaults.
type Config struct {
	// Server is the CivicTrack API root.
	Server string `env:"CIVICTRACK_SERVER" envDefault:"http://localhost:5000"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"CIVICTRACK_LOG_LEVEL" envDefault:"info"`

	// LogFormat is "text" or "json".
	LogFormat string `env:"CIVICTRACK_LOG_FORMAT" envDefault:"text"`

	// Timeout applies to each API request.
	Timeout time.Duration `env:"CIVICTRACK_TIMEOUT" envDefault:"30s"`

	// DataDir overrides where credentials and the local database live.
	// Empty means ~/.civictrack.
	DataDir string `env:"CIVICTRACK_DATA_DIR"`
}

// Load reads configuration from the environment, consulting a .env file in
// the working directory when one exists.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// ResolveDataDir returns the directory for client state, defaulting to
// ~/.civictrack.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".civictrack"), nil
}
