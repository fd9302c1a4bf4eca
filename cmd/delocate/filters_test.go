// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"github.com/noxdafox/delocate/internal/config"
)

func TestBuildLibFilter(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	t.Run("inspect all disables the filter", func(t *testing.T) {
		t.Parallel()

		if filt := buildLibFilter(cfg, true); filt != nil {
			t.Error("buildLibFilter(inspectAll) should return nil, meaning every file is inspected")
		}
	})

	t.Run("default filter follows configured suffixes", func(t *testing.T) {
		t.Parallel()

		filt := buildLibFilter(cfg, false)
		if filt == nil {
			t.Fatal("buildLibFilter() = nil, want suffix filter")
		}

		tests := []struct {
			path string
			want bool
		}{
			{"/build/lib/fakepkg/ext.so", true},
			{"/build/lib/fakepkg/libfoo.dylib", true},
			{"/build/lib/fakepkg/__init__.py", false},
			{"/build/lib/fakepkg/notes.txt", false},
		}
		for _, tt := range tests {
			if got := filt(tt.path); got != tt.want {
				t.Errorf("filt(%q) = %v, want %v", tt.path, got, tt.want)
			}
		}
	})
}

func TestBuildCopyFilter(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	t.Run("configured prefixes are excluded", func(t *testing.T) {
		t.Parallel()

		filt := buildCopyFilter(cfg, nil)

		tests := []struct {
			path string
			want bool
		}{
			{"/usr/lib/libSystem.B.dylib", false},
			{"/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", false},
			{"/usr/local/lib/libfoo.dylib", true},
			{"/opt/homebrew/lib/libbar.dylib", true},
		}
		for _, tt := range tests {
			if got := filt(tt.path); got != tt.want {
				t.Errorf("filt(%q) = %v, want %v", tt.path, got, tt.want)
			}
		}
	})

	t.Run("command line prefixes extend the configured set", func(t *testing.T) {
		t.Parallel()

		filt := buildCopyFilter(cfg, []string{"/opt/homebrew"})

		if filt("/opt/homebrew/lib/libbar.dylib") {
			t.Error("extra exclude prefix should reject /opt/homebrew paths")
		}
		if !filt("/usr/local/lib/libfoo.dylib") {
			t.Error("unrelated paths should still be accepted")
		}
		if filt("/usr/lib/libSystem.B.dylib") {
			t.Error("configured prefixes should still be rejected")
		}
	})
}
