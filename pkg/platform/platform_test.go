// SPDX-License-Identifier: MPL-2.0

package platform_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/noxdafox/delocate/pkg/platform"
)

func TestUserConfigDir(t *testing.T) {
	dir, err := platform.UserConfigDir("delocate")
	if err != nil {
		t.Fatalf("UserConfigDir() error = %v", err)
	}
	if filepath.Base(dir) != "delocate" {
		t.Errorf("UserConfigDir() = %q, want app name as last element", dir)
	}
}

func TestUserConfigDir_XDGOverride(t *testing.T) {
	if runtime.GOOS == platform.Windows || runtime.GOOS == platform.Darwin {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and friends")
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.FromSlash("/custom/xdg"))

	dir, err := platform.UserConfigDir("delocate")
	if err != nil {
		t.Fatalf("UserConfigDir() error = %v", err)
	}
	want := filepath.Join(filepath.FromSlash("/custom/xdg"), "delocate")
	if dir != want {
		t.Errorf("UserConfigDir() = %q, want %q", dir, want)
	}
}

func TestUserConfigDir_XDGFallback(t *testing.T) {
	if runtime.GOOS == platform.Windows || runtime.GOOS == platform.Darwin {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and friends")
	}

	t.Setenv("XDG_CONFIG_HOME", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	dir, err := platform.UserConfigDir("delocate")
	if err != nil {
		t.Fatalf("UserConfigDir() error = %v", err)
	}
	want := filepath.Join(home, ".config", "delocate")
	if dir != want {
		t.Errorf("UserConfigDir() = %q, want %q", dir, want)
	}
}
