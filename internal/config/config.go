// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// paperchat.
//
// Configuration is a TOML file with sensible defaults and environment
// variable overrides:
//   - ~/.paperchat/config.toml
//   - Built-in defaults
//
// The conversation state database and export directory live next to it
// under ~/.paperchat/.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/util"
)

// Environment variable overrides, applied after the file is read.
const (
	EnvServerURL  = "PAPERCHAT_SERVER_URL"
	EnvPersistDir = "PAPERCHAT_PERSIST_DIR"
	EnvCollection = "PAPERCHAT_COLLECTION"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete paperchat configuration.
type Config struct {
	Version string `toml:"version"`

	// Server is the RAG server connection configuration.
	Server ServerConfig `toml:"server"`

	// Defaults are the query settings new conversations start from.
	Defaults model.QuerySettings `toml:"defaults"`

	// UI configuration.
	UI UIConfig `toml:"ui"`
}

// ServerConfig holds RAG server connection settings.
type ServerConfig struct {
	// BaseURL of the ask/index endpoints
	BaseURL string `toml:"base_url"`
	// AskTimeoutSecs bounds one ask request
	AskTimeoutSecs int `toml:"ask_timeout_secs"`
	// IndexTimeoutSecs bounds one indexing upload
	IndexTimeoutSecs int `toml:"index_timeout_secs"`
	// RequestsPerSecond throttles outgoing requests
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// WordWrap is the rendered answer width in the CLI surface
	WordWrap int `toml:"word_wrap"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			BaseURL:           "http://127.0.0.1:8000",
			AskTimeoutSecs:    120,
			IndexTimeoutSecs:  900,
			RequestsPerSecond: 2,
		},
		Defaults: model.DefaultQuerySettings(),
		UI: UIConfig{
			WordWrap: 80,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// DataDir returns the paperchat data directory (~/.paperchat).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".paperchat"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StatePath returns the conversation state database path.
func StatePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// ExportDir returns the conversation export directory.
func ExportDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exports"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when it does not
// exist, then applies environment overrides and backfills zero values.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv(EnvPersistDir); v != "" {
		c.Defaults.PersistDir = v
	}
	if v := os.Getenv(EnvCollection); v != "" {
		c.Defaults.CollectionName = v
	}
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.AskTimeoutSecs <= 0 {
		c.Server.AskTimeoutSecs = def.Server.AskTimeoutSecs
	}
	if c.Server.IndexTimeoutSecs <= 0 {
		c.Server.IndexTimeoutSecs = def.Server.IndexTimeoutSecs
	}
	if c.Server.RequestsPerSecond <= 0 {
		c.Server.RequestsPerSecond = def.Server.RequestsPerSecond
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = def.UI.WordWrap
	}
	c.Defaults = c.Defaults.Normalized()
}

// Validate checks the config for unusable values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server base_url %q", c.Server.BaseURL)
	}
	return nil
}
