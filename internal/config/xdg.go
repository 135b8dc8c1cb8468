// Package config resolves file locations and user settings.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "tamatots"

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

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

// DefaultStatePath returns the default session record path.
func DefaultStatePath() string {
	return filepath.Join(XDGDataHome(), appDir, "pet.json")
}

// DefaultJournalPath returns the default SQLite journal path.
func DefaultJournalPath() string {
	return filepath.Join(XDGDataHome(), appDir, "journal.db")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appDir, "tamatots.log")
}
