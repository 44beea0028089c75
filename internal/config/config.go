// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for longo.
//
// Configuration file locations (in order of precedence):
//   - ~/.longo/config.toml
//   - Built-in defaults
//
// Environment variables override file values. Nothing in this package is
// ambient: callers load a Config and pass it down.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete longo configuration.
type Config struct {
	Version string `toml:"version"`

	// API is the backend connection configuration.
	API APIConfig `toml:"api"`

	// User identifies the account and membership level.
	User UserConfig `toml:"user"`

	// UI configuration.
	UI UIConfig `toml:"ui"`

	// History configures the free-plan local message cache.
	History HistoryConfig `toml:"history"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the chat backend base URL.
	BaseURL string `toml:"base_url"`
	// Username is the per-integration credential sent with every request.
	// There is no built-in default; an empty value means unauthenticated.
	Username string `toml:"username"`
	// Password is the per-integration credential paired with Username.
	Password string `toml:"password"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UserConfig identifies the current user.
type UserConfig struct {
	// ID is the real account identifier. Leave empty for free-plan use;
	// a generated session identity takes over.
	ID string `toml:"id"`
	// Level is the membership level: 1 = free, 2 = premium, 3 = premium_plus.
	// Zero is treated as free.
	Level int `toml:"level"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact transcript layout
	CompactMode bool `toml:"compact_mode"`
}

// HistoryConfig configures the local message cache.
type HistoryConfig struct {
	// Enabled controls whether free-plan history is cached locally.
	Enabled bool `toml:"enabled"`
	// MaxEntries is the maximum number of cached messages per session.
	MaxEntries int `toml:"max_entries"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:     "https://longo-ai.onrender.com",
			TimeoutSecs: 60,
		},

		User: UserConfig{
			Level: 1,
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
		},

		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 200,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the longo configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".longo"), nil
}

// StateDir returns the directory for mutable state (identity, history cache).
func StateDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only) to protect credentials.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems; warn and continue.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.User.Level == 0 {
		cfg.User.Level = defaults.User.Level
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = defaults.History.MaxEntries
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Permissions must be correct even if the file already existed.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# longo configuration file")
	fmt.Fprintln(file, "# Generated by longo - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: "cannot be empty",
		})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s'", c.API.BaseURL),
		})
	}

	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.User.Level < 0 || c.User.Level > 3 {
		errs = append(errs, ValidationError{
			Field:   "user.level",
			Message: fmt.Sprintf("must be 0-3, got %d", c.User.Level),
		})
	}

	// Paid levels need a real account id configured, or resolvable at
	// runtime; the resolver enforces the runtime half.
	if c.User.Level >= 2 && c.User.ID != "" && strings.HasPrefix(c.User.ID, "session-user-") {
		errs = append(errs, ValidationError{
			Field:   "user.id",
			Message: "generated session ids are not valid account ids",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if c.History.MaxEntries < 0 || c.History.MaxEntries > 100000 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: fmt.Sprintf("must be 0-100000, got %d", c.History.MaxEntries),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - LONGO_API_URL: overrides api.base_url
//   - LONGO_API_USERNAME: overrides api.username
//   - LONGO_API_PASSWORD: overrides api.password
//   - LONGO_USER_ID: overrides user.id
//   - LONGO_USER_LEVEL: overrides user.level
//   - LONGO_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LONGO_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LONGO_API_USERNAME"); v != "" {
		c.API.Username = v
	}
	if v := os.Getenv("LONGO_API_PASSWORD"); v != "" {
		c.API.Password = v
	}
	if v := os.Getenv("LONGO_USER_ID"); v != "" {
		c.User.ID = v
	}
	if v := os.Getenv("LONGO_USER_LEVEL"); v != "" {
		if level, err := strconv.Atoi(v); err == nil {
			c.User.Level = level
		}
	}
	if v := os.Getenv("LONGO_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation for debugging. Credentials are
// redacted so the output is safe to log.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.API.Password != "" {
		safe.API.Password = "[REDACTED]"
	}
	return fmt.Sprintf("%+v", *safe)
}
