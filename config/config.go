// Package config handles configuration loading and management for csig.
// Configuration is loaded from:
// 1. ~/.config/csig/config.yaml (user-level)
// 2. .csig/config.yaml (project-level override)
// 3. Environment variables (highest priority)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IndexConfig holds settings for index runs.
type IndexConfig struct {
	// Workers is the number of parallel parse workers (default: NumCPU)
	Workers int `yaml:"workers"`

	// DBFile is the index database filename, relative to the project
	// root unless absolute (default: csig.sqlite3)
	DBFile string `yaml:"db_file"`
}

// SearchConfig holds settings for query ranking.
type SearchConfig struct {
	// Top is how many results a search returns (default: 20)
	Top int `yaml:"top"`

	// CandidateLimit caps how many rows ranking considers. 0 means
	// derive it from Top.
	CandidateLimit int `yaml:"candidate_limit"`
}

// TUIConfig holds settings for the interactive browser.
type TUIConfig struct {
	// DebounceMs is how long typing must pause before a search fires
	// (default: 250)
	DebounceMs int `yaml:"debounce_ms"`

	// ResultLimit caps how many rows the result table shows (default: 50)
	ResultLimit int `yaml:"result_limit"`
}

// Config is the main configuration structure.
type Config struct {
	// Index holds index run settings
	Index IndexConfig `yaml:"index"`

	// Search holds ranking settings
	Search SearchConfig `yaml:"search"`

	// TUI holds interactive browser settings
	TUI TUIConfig `yaml:"tui"`

	// Debug enables verbose logging
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Workers: runtime.NumCPU(),
			DBFile:  "csig.sqlite3",
		},
		Search: SearchConfig{
			Top:            20,
			CandidateLimit: 0, // derived from Top
		},
		TUI: TUIConfig{
			DebounceMs:  250,
			ResultLimit: 50,
		},
		Debug: false,
	}
}

// Load reads configuration from standard locations and merges with defaults.
// Priority (highest to lowest):
// 1. Environment variables
// 2. Project config (.csig/config.yaml)
// 3. User config (~/.config/csig/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try user config first
	userPath, err := userConfigPath()
	if err == nil {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing user config %s: %w", userPath, err)
			}
		}
	}

	// Try project config (overrides user config)
	projectPath := filepath.Join(".csig", "config.yaml")
	if data, err := os.ReadFile(projectPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing project config %s: %w", projectPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFromPath reads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// CandidateLimitFor returns the row cap for ranking a query that asks for
// top results: the configured value when set, otherwise 20 rows per
// requested result with a floor of 200. The cap must scale with the
// requested top or large requests would drop rankable rows.
func (c *Config) CandidateLimitFor(top int) int {
	if c.Search.CandidateLimit > 0 {
		return c.Search.CandidateLimit
	}
	limit := top * 20
	if limit < 200 {
		limit = 200
	}
	return limit
}

// CandidateLimit returns the row cap for the configured default top.
func (c *Config) CandidateLimit() int {
	return c.CandidateLimitFor(c.Search.Top)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Index.Workers < 1 {
		errs = append(errs, "index workers must be at least 1")
	}
	if c.Index.DBFile == "" {
		errs = append(errs, "db_file is required")
	}
	if c.Search.Top < 1 {
		errs = append(errs, "search top must be at least 1")
	}
	if c.Search.CandidateLimit < 0 {
		errs = append(errs, "candidate_limit must be non-negative")
	}
	if c.TUI.DebounceMs < 0 {
		errs = append(errs, "debounce_ms must be non-negative")
	}
	if c.TUI.ResultLimit < 1 {
		errs = append(errs, "result_limit must be at least 1")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// userConfigPath returns the path to the user configuration file.
func userConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "csig", "config.yaml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "csig", "config.yaml"), nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CSIG_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.Workers = n
		}
	}

	if v := os.Getenv("CSIG_DB_FILE"); v != "" {
		cfg.Index.DBFile = v
	}

	if v := os.Getenv("CSIG_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.Top = n
		}
	}

	if v := os.Getenv("CSIG_DEBUG"); v == "1" || strings.ToLower(v) == "true" {
		cfg.Debug = true
	}
}
