// Package config provides configuration types, defaults, and loading for
// stemma.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration options for stemma.
type Config struct {
	// DataDir is where the database and log file live.
	// Empty means ~/.stemma.
	DataDir             string        `mapstructure:"data_dir"`
	AutoSave            bool          `mapstructure:"auto_save"`
	AutoRefresh         bool          `mapstructure:"auto_refresh"`
	AutoRefreshDebounce time.Duration `mapstructure:"auto_refresh_debounce"`
	Flow                string        `mapstructure:"flow"`
	UI                  UIConfig      `mapstructure:"ui"`
	Tracing             TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`
	ShowHints     bool `mapstructure:"show_hints"`
}

// TracingConfig controls the optional OpenTelemetry pipeline.
// With Enabled true and no endpoint, spans are written to the log file.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // OTLP gRPC endpoint, e.g. "localhost:4317"
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoSave:            true,
		AutoRefresh:         true,
		AutoRefreshDebounce: 500 * time.Millisecond,
		Flow:                "default",
		UI: UIConfig{
			ShowStatusBar: true,
			ShowHints:     true,
		},
	}
}

// Load reads configuration from the given file path, or from the default
// location (~/.stemma/config.yml) when path is empty. A missing file is not
// an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
		v.SetConfigFile(path)
	} else {
		dir, err := defaultDataDir()
		if err != nil {
			return cfg, nil
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ResolvedDataDir returns the effective data directory, falling back to
// ~/.stemma when unset.
func (c Config) ResolvedDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return defaultDataDir()
}

// DatabasePath returns the SQLite database location inside the data dir.
func (c Config) DatabasePath() (string, error) {
	dir, err := c.ResolvedDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stemma.db"), nil
}

// LogPath returns the log file location inside the data dir.
func (c Config) LogPath() (string, error) {
	dir, err := c.ResolvedDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stemma.log"), nil
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".stemma"), nil
}

// DefaultConfigTemplate returns the default config as a YAML string with
// comments.
func DefaultConfigTemplate() string {
	return `# Stemma Configuration

# Directory for the database and log file (default: ~/.stemma)
# data_dir: /path/to/dir

# Persist the flow after every committed edit
auto_save: true

# Reload when the database changes outside this process
auto_refresh: true
auto_refresh_debounce: 500ms

# Name of the flow to open at startup
flow: default

# UI settings
ui:
  show_status_bar: true  # Status bar with key hints at the bottom
  show_hints: true       # Inline hints next to empty slots

# OpenTelemetry tracing (disabled by default). With no endpoint, spans go
# to the log file.
tracing:
  enabled: false
  # endpoint: localhost:4317
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
