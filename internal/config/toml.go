// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// History backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	History  HistoryConfig  `toml:"history"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Passages *string `toml:"passages"`
	Width    *int    `toml:"width"`
}

// HistoryConfig maps history storage settings.
type HistoryConfig struct {
	Limit   *int    `toml:"limit"`
	Backend *string `toml:"backend"`
	Path    *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads variables from dotenv files without overriding the process
// environment. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ValidBackend reports whether name is a known history backend.
func ValidBackend(name string) bool {
	return name == BackendSQLite || name == BackendJSON
}
