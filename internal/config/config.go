// Package config handles application configuration: a YAML file under
// ~/.shrew plus environment credentials loaded via .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ShrewDir is the per-user data directory name.
	ShrewDir = ".shrew"

	ConfigFile  = "config.yml"
	DBFile      = "refs.db"
	LogFile     = "logfile.txt"
	HistoryFile = "history.json"
)

// Config is the application configuration.
type Config struct {
	// ResolverURL overrides the citation-resolution service endpoint.
	ResolverURL string `yaml:"resolver_url,omitempty"`

	// LibraryURL overrides the library backend endpoint.
	LibraryURL string `yaml:"library_url,omitempty"`

	// DBPath overrides the reference-cache database location.
	DBPath string `yaml:"db_path,omitempty"`

	// LogPath overrides the diagnostic log location.
	LogPath string `yaml:"log_path,omitempty"`

	// HistoryPath overrides the lookup-history location.
	HistoryPath string `yaml:"history_path,omitempty"`

	// TimeoutSeconds bounds individual HTTP requests. 0 keeps the client
	// defaults.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// Dir returns the per-user data directory (~/.shrew), or "." when the
// home directory cannot be determined.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ShrewDir
	}
	return filepath.Join(home, ShrewDir)
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(Dir(), ConfigFile)
}

// Load reads the config file at path, filling defaults for anything the
// file leaves unset. A missing file yields the pure-default config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("%s: timeout_seconds must not be negative", path)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config file, creating the data directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	dir := Dir()
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, DBFile)
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(dir, LogFile)
	}
	if c.HistoryPath == "" {
		c.HistoryPath = filepath.Join(dir, HistoryFile)
	}
}

// Timeout returns the configured HTTP timeout, 0 when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
