// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Operating system names as reported by runtime.GOOS, named here so
// callers compare against constants instead of bare literals.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// UserConfigDir returns the per-user configuration directory for app:
// %APPDATA%\app on Windows (falling back to the roaming profile path),
// ~/Library/Application Support/app on macOS, and $XDG_CONFIG_HOME/app
// (defaulting to ~/.config/app) everywhere else.
func UserConfigDir(app string) (string, error) {
	var base string

	switch runtime.GOOS {
	case Windows:
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, app), nil
}
