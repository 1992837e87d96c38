// Package paths provides a single source of truth for prdchat file paths.
// All path helpers honor environment variable overrides for isolated testing.
//
// Path resolution precedence:
//  1. PRDCHAT_DIR sets the base directory (derives config, log and export paths)
//  2. Default behavior (~/.prdchat, ~/.config/prdchat) when it is unset
package paths

import (
	"os"
	"path/filepath"
)

// EnvDir is the base directory override (e.g., /tmp/prdchat-e2e).
const EnvDir = "PRDCHAT_DIR"

// BaseDir returns the prdchat base directory (~/.prdchat by default).
// Honors PRDCHAT_DIR environment variable.
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".prdchat"), nil
}

// ConfigDir returns the prdchat config directory (~/.config/prdchat by default).
// When PRDCHAT_DIR is set, returns PRDCHAT_DIR/config instead.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return filepath.Join(dir, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "prdchat"), nil
}

// ConfigPath returns the path to the prdchat config file.
// (~/.config/prdchat/config.toml by default, or PRDCHAT_DIR/config/config.toml).
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the log file path (~/.prdchat/prdchat.log by default).
func LogPath() string {
	base, err := BaseDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "prdchat.log")
	}
	return filepath.Join(base, "prdchat.log")
}

// ExportDir returns the directory exported documents are written to
// (~/.prdchat/prds by default).
func ExportDir() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "prds"), nil
}
