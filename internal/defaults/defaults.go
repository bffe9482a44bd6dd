// Package defaults resolves the platform data directory used for the
// SQLite database and captured screenshots.
//
// Platform paths:
//
//	macOS:   ~/Library/Application Support/Nova/
//	Windows: %AppData%\Nova\
//	Linux:   ~/.config/nova/
//
// Override with NOVA_DATA_DIR environment variable.
package defaults

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the platform-appropriate data directory.
// Set NOVA_DATA_DIR to override.
func DataDir() (string, error) {
	if dir := os.Getenv("NOVA_DATA_DIR"); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}

	// Linux: lowercase per XDG convention
	// macOS/Windows: title case per platform convention
	if runtime.GOOS == "linux" {
		return filepath.Join(configDir, "nova"), nil
	}
	return filepath.Join(configDir, "Nova"), nil
}

// EnsureDataDir creates the data directory and its standard
// subdirectories (data/ for the database, screenshots/ for captures).
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}

	for _, sub := range []string{"", "data", "screenshots"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return "", fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return dir, nil
}

// ScreenshotsDir returns the directory where action screenshots are written.
func ScreenshotsDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	sub := filepath.Join(dir, "screenshots")
	if err := os.MkdirAll(sub, 0755); err != nil {
		return "", err
	}
	return sub, nil
}
