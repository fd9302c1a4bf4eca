// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "config.cue"); err != nil {
			t.Errorf("FormatError(nil) = %v, want nil", err)
		}
	})

	t.Run("non-CUE error is wrapped with the file name", func(t *testing.T) {
		t.Parallel()

		base := errors.New("disk on fire")
		err := FormatError(base, "config.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "config.cue") {
			t.Errorf("error should carry the file name, got: %v", err)
		}
		if !errors.Is(err, base) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
	})

	t.Run("validation failure carries file and path", func(t *testing.T) {
		t.Parallel()

		_, err := Unify(settingsSchema, []byte(`name: 42`), "#Settings",
			WithFilename("settings.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		msg := err.Error()
		if !strings.HasPrefix(msg, "settings.cue: ") {
			t.Errorf("error should start with the file name, got: %q", msg)
		}
		if !strings.Contains(msg, "name") {
			t.Errorf("error should name the failing field, got: %q", msg)
		}
	})
}

func TestJSONPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{"empty path", []string{}, ""},
		{"single element", []string{"lib_sdir"}, "lib_sdir"},
		{"nested path", []string{"ui", "verbose"}, "ui.verbose"},
		{"array index", []string{"exclude_prefixes", "0"}, "exclude_prefixes[0]"},
		{"index then field", []string{"entries", "2", "path"}, "entries[2].path"},
		{"nested arrays", []string{"items", "0", "values", "1"}, "items[0].values[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := jsonPath(tt.parts); got != tt.expected {
				t.Errorf("jsonPath(%v) = %q, want %q", tt.parts, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		max     int64
		wantErr bool
	}{
		{"within limit", 50, 100, false},
		{"at exact limit", 100, 100, false},
		{"over limit", 101, 100, true},
		{"empty data", 0, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), tt.max, "config.cue")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), "config.cue") {
				t.Errorf("error should carry the file name, got: %v", err)
			}
		})
	}
}
