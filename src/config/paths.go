package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "maru", "config.json")
}

// DefaultPromptDir returns where persona.md and user.md live.
func DefaultPromptDir() string {
	return filepath.Join(xdg.ConfigHome, "maru")
}

// DefaultDatabasePath returns the default SQLite database location. State
// data lives under XDG_STATE_HOME per the base directory specification.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.StateHome, "maru", "chat.db")
}
