// Package config loads component configuration from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}

// Dir returns the macrolog configuration directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "macrolog")
	}
	return ExpandPath("~/.config/macrolog")
}

// DefaultDatabasePath is where the local SQLite store lives unless configured.
func DefaultDatabasePath() string {
	return filepath.Join(Dir(), "macrolog.db")
}
