package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetXDGDataDir returns the XDG data directory for polyx.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/polyx
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "polyx"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "polyx"), nil
}

// DefaultDatabasePath returns the local libsql file used when no database URL is configured.
func DefaultDatabasePath() (string, error) {
	dir, err := GetXDGDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "polyx.db"), nil
}
