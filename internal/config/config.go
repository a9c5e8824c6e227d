// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings live here; the token and DSN go to the OS
// keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"driftwatch/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string         `json:"log_level"`
	Snapshot SnapshotConfig `json:"snapshot"`
}

// SnapshotConfig holds schema snapshot settings.
type SnapshotConfig struct {
	// Schemas restricts inspection to the named schemas; empty means all
	// non-system schemas.
	Schemas []string `json:"schemas"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; a missing file returns defaults.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.LogLevel = "info"
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
