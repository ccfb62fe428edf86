// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "saype"

// Environment overrides for default paths.
const (
	EnvConfigPath  = "SAYPE_CONFIG"
	EnvDBPath      = "SAYPE_DB"
	EnvHistoryFile = "SAYPE_HISTORY_FILE"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultPassagesPath returns the default passage file.
func DefaultPassagesPath() string {
	return filepath.Join(XDGConfigHome(), appName, "passages.txt")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	if v := os.Getenv(EnvDBPath); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultHistoryFile returns the default path for the JSON history backend.
func DefaultHistoryFile() string {
	if v := os.Getenv(EnvHistoryFile); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appName, "history.json")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
