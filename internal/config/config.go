// Package config loads the server configuration from a YAML file.
// Flags override file values in cmd/server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the analytics server configuration.
type ServerConfig struct {
	// DataDir is the directory scanned for *.json trade files.
	DataDir string `yaml:"data_dir"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// OutputDir is where generated report files are written.
	OutputDir string `yaml:"output_dir"`

	Watch struct {
		// Enabled turns on the data directory watcher.
		Enabled bool `yaml:"enabled"`
		// DebounceMs coalesces bursts of file events (default 500).
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"watch"`

	Export struct {
		// PostgresDSN enables trade export when set.
		PostgresDSN string `yaml:"postgres_dsn"`
		// ClickhouseDSN enables group-metrics export when set.
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"export"`

	// TopN bounds the "top strategies" report section (default 5).
	TopN int `yaml:"top_n"`
}

// Default returns a config with default values applied.
func Default() ServerConfig {
	var cfg ServerConfig
	cfg.Addr = ":8080"
	cfg.OutputDir = "reports"
	cfg.Watch.DebounceMs = 500
	cfg.TopN = 5
	return cfg
}

// Load reads and parses the YAML config file at path, applying
// defaults for unset fields.
func Load(path string) (ServerConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Watch.DebounceMs <= 0 {
		cfg.Watch.DebounceMs = 500
	}
	if cfg.TopN < 0 {
		cfg.TopN = 0
	}

	return cfg, nil
}

// Validate checks that required fields are set.
func (c ServerConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// Debounce returns the watcher debounce window as a duration.
func (c ServerConfig) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}
