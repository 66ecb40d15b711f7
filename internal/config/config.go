// Package config loads CodeTrack settings from defaults, an optional YAML
// file and CODETRACK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name used for data and config directories.
	AppName = "codetrack"

	// MemoryDatabase selects an in-memory store for either backend.
	MemoryDatabase = ":memory:"
)

// Backend names.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	// User is the signed-in user's identifier. Empty defers loading.
	User string `yaml:"user"`
	// UserName is the display name used when the user is first provisioned.
	UserName string `yaml:"user_name"`

	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir"`
	Database string `yaml:"database"`

	// RefreshInterval is how often the activity store reloads from storage.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	Log   LogConfig   `yaml:"log"`
	Chart ChartConfig `yaml:"chart"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ChartConfig holds report defaults.
type ChartConfig struct {
	Period string `yaml:"period"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		User:            "local",
		Backend:         BackendBadger,
		DataDir:         DefaultDataDir(),
		RefreshInterval: 5 * time.Minute,
		Log:             LogConfig{Level: "warn"},
		Chart:           ChartConfig{Period: "day"},
	}
}

// DefaultDataDir returns the default data directory under $XDG_DATA_HOME.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load reads configuration from the given path and then applies environment
// overrides. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.loadFromEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv loads configuration overrides from environment variables.
// Unparseable values are ignored and left to the file or default.
func (c *Config) loadFromEnv() {
	if v, ok := os.LookupEnv("CODETRACK_USER"); ok {
		c.User = v
	}
	if v := os.Getenv("CODETRACK_USER_NAME"); v != "" {
		c.UserName = v
	}
	if v := os.Getenv("CODETRACK_BACKEND"); v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CODETRACK_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CODETRACK_DATABASE"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("CODETRACK_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RefreshInterval = d
		}
	}
	if v := os.Getenv("CODETRACK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CODETRACK_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.JSON = b
		}
	}
	if v := os.Getenv("CODETRACK_CHART_PERIOD"); v != "" {
		c.Chart.Period = v
	}
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Backend == "" {
		c.Backend = defaults.Backend
	}
	if c.DataDir == "" {
		c.DataDir = defaults.DataDir
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = defaults.RefreshInterval
	}
	if c.Chart.Period == "" {
		c.Chart.Period = defaults.Chart.Period
	}
	if c.UserName == "" {
		c.UserName = c.User
	}
}

// InMemory reports whether the configured database lives only in memory.
func (c *Config) InMemory() bool {
	return c.Database == MemoryDatabase
}

// BadgerPath returns the directory of the badger key-value store.
func (c *Config) BadgerPath() string {
	return filepath.Join(c.DataDir, "db")
}

// SQLitePath returns the SQLite database file, honoring an explicit Database.
func (c *Config) SQLitePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.DataDir, "codetrack.db")
}
