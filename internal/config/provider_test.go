// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewProvider(t *testing.T) {
	if NewProvider() == nil {
		t.Fatal("NewProvider() returned nil")
	}
}

func TestProvider_DirOption(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "config.cue")
	if err := os.WriteFile(cuePath, []byte(`lib_sdir: ".opt_dir"`), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, resolved, err := NewProvider().LoadResolved(context.Background(), LoadOptions{Dir: tmpDir})
	if err != nil {
		t.Fatalf("LoadResolved() failed: %v", err)
	}
	if resolved != cuePath {
		t.Errorf("resolved path = %q, want %q", resolved, cuePath)
	}
	if cfg.LibSdir != ".opt_dir" {
		t.Errorf("lib sdir = %q, want .opt_dir", cfg.LibSdir)
	}
}

func TestProvider_FileBeatsDir(t *testing.T) {
	dirPath := t.TempDir()
	if err := os.WriteFile(filepath.Join(dirPath, "config.cue"), []byte(`lib_sdir: ".from_dir"`), 0o644); err != nil {
		t.Fatalf("failed to write dir config: %v", err)
	}

	filePath := filepath.Join(t.TempDir(), "explicit.cue")
	if err := os.WriteFile(filePath, []byte(`lib_sdir: ".from_file"`), 0o644); err != nil {
		t.Fatalf("failed to write explicit config: %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		File: filePath,
		Dir:  dirPath,
	})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LibSdir != ".from_file" {
		t.Errorf("lib sdir = %q, want .from_file (explicit file should win)", cfg.LibSdir)
	}
}

func TestProvider_LoadMatchesLoadResolved(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.cue"), []byte(`ui: verbose: true`), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	opts := LoadOptions{Dir: tmpDir}
	p := NewProvider()

	fromLoad, err := p.Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	fromResolved, _, err := p.LoadResolved(context.Background(), opts)
	if err != nil {
		t.Fatalf("LoadResolved() failed: %v", err)
	}

	if fromLoad.UI.Verbose != fromResolved.UI.Verbose || fromLoad.LibSdir != fromResolved.LibSdir {
		t.Errorf("Load() and LoadResolved() disagree: %+v vs %+v", fromLoad, fromResolved)
	}
}
