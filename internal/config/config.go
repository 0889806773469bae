// Package config handles persistent user configuration for deployctl.
//
// Configuration is stored as JSON at ~/.config/deployctl/config.json (or
// the platform-equivalent path returned by os.UserConfigDir). Values can be
// overridden per invocation by DEPLOYCTL_* environment variables and flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appDir   = "deployctl"
	fileName = "config.json"
)

// pathOverride, when non-empty, replaces the default config file path.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	// DefaultScope is the team used when --scope is not given.
	DefaultScope string `json:"default_scope,omitempty"`

	// APIURL points the client at a different API endpoint.
	APIURL string `json:"api_url,omitempty"`

	// LogLevel is used when --log-level is not given.
	LogLevel string `json:"log_level,omitempty"`
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

func resolve(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return Path()
}

// Load reads the config file. A missing file yields a zero Config.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads the config at path, or at Path() when path is empty.
func LoadFrom(path string) (*Config, error) {
	path, err := resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to Path(), creating the parent directory if needed.
func (c *Config) Save() error {
	return c.SaveTo("")
}

// SaveTo writes the config to path, or to Path() when path is empty.
func (c *Config) SaveTo(path string) error {
	path, err := resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: failed to create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}
