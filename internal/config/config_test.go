// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/noxdafox/delocate/internal/issue"
	"github.com/noxdafox/delocate/internal/testutil"
	"github.com/noxdafox/delocate/pkg/platform"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LibSdir != DefaultLibSdir {
		t.Errorf("expected default lib sdir to be %q, got %q", DefaultLibSdir, cfg.LibSdir)
	}

	if len(cfg.ExcludePrefixes) != 2 {
		t.Fatalf("expected 2 default exclude prefixes, got %v", cfg.ExcludePrefixes)
	}
	if cfg.ExcludePrefixes[0] != "/usr/lib" || cfg.ExcludePrefixes[1] != "/System" {
		t.Errorf("unexpected default exclude prefixes: %v", cfg.ExcludePrefixes)
	}

	if len(cfg.InspectSuffixes) != 2 {
		t.Fatalf("expected 2 default inspect suffixes, got %v", cfg.InspectSuffixes)
	}
	if cfg.InspectSuffixes[0] != ".so" || cfg.InspectSuffixes[1] != ".dylib" {
		t.Errorf("unexpected default inspect suffixes: %v", cfg.InspectSuffixes)
	}

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected verbose to be false by default")
	}

	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got errors: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		restore := OverrideConfigDir("/custom/config/dir")
		defer restore()

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() failed: %v", err)
		}
		if dir != "/custom/config/dir" {
			t.Errorf("ConfigDir() = %q, want /custom/config/dir", dir)
		}
	})

	t.Run("ends with app name", func(t *testing.T) {
		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() failed: %v", err)
		}
		if filepath.Base(dir) != AppName {
			t.Errorf("ConfigDir() = %q, want path ending in %q", dir, AppName)
		}
	})

	t.Run("xdg config home respected", func(t *testing.T) {
		if runtime.GOOS == platform.Windows || runtime.GOOS == platform.Darwin {
			t.Skipf("XDG_CONFIG_HOME is not used on %s", runtime.GOOS)
		}

		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() failed: %v", err)
		}
		want := filepath.Join(tmpDir, AppName)
		if dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	cfgDir := filepath.Join(tmpDir, "nested", "delocate")
	restore := OverrideConfigDir(cfgDir)
	defer restore()

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() failed: %v", err)
	}

	info, err := os.Stat(cfgDir)
	if err != nil {
		t.Fatalf("config dir was not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected %q to be a directory", cfgDir)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	restore := OverrideConfigDir(tmpDir)
	defer restore()

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() failed: %v", err)
	}

	cfgPath := filepath.Join(tmpDir, "config.cue")
	content, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if !strings.Contains(string(content), `lib_sdir: ".dylibs"`) {
		t.Errorf("default config missing lib_sdir, got:\n%s", content)
	}

	// A second call must not overwrite an existing file.
	marker := []byte("lib_sdir: \".custom\"\n")
	if err := os.WriteFile(cfgPath, marker, 0o644); err != nil {
		t.Fatalf("failed to modify config file: %v", err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() failed: %v", err)
	}
	content, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to re-read config file: %v", err)
	}
	if string(content) != string(marker) {
		t.Errorf("CreateDefaultConfig() overwrote an existing file:\n%s", content)
	}
}

func TestLoad_Defaults(t *testing.T) {
	restore := OverrideConfigDir(t.TempDir())
	defer restore()
	testutil.Unsetenv(t, "DELOCATE_LIB_SDIR")

	cfg, resolved, err := NewProvider().LoadResolved(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadResolved() failed: %v", err)
	}

	if resolved != "" {
		t.Errorf("expected empty resolved path without a config file, got %q", resolved)
	}
	if cfg.LibSdir != DefaultLibSdir {
		t.Errorf("expected default lib sdir, got %q", cfg.LibSdir)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme, got %q", cfg.UI.ColorScheme)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	restore := OverrideConfigDir(tmpDir)
	defer restore()

	cuePath := filepath.Join(tmpDir, "config.cue")
	content := `lib_sdir: ".libs"

ui: verbose: true
`
	if err := os.WriteFile(cuePath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, resolved, err := NewProvider().LoadResolved(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadResolved() failed: %v", err)
	}

	if resolved != cuePath {
		t.Errorf("resolved path = %q, want %q", resolved, cuePath)
	}
	if cfg.LibSdir != ".libs" {
		t.Errorf("lib sdir = %q, want .libs", cfg.LibSdir)
	}
	if !cfg.UI.Verbose {
		t.Error("expected verbose to be true from config file")
	}

	// Unset fields keep their defaults after the merge.
	if len(cfg.ExcludePrefixes) != 2 || cfg.ExcludePrefixes[0] != "/usr/lib" {
		t.Errorf("expected default exclude prefixes to survive merge, got %v", cfg.ExcludePrefixes)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to survive merge, got %q", cfg.UI.ColorScheme)
	}
}

func TestLoad_InvalidCUESyntax(t *testing.T) {
	tmpDir := t.TempDir()
	restore := OverrideConfigDir(tmpDir)
	defer restore()

	cuePath := filepath.Join(tmpDir, "config.cue")
	if err := os.WriteFile(cuePath, []byte("lib_sdir: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err == nil {
		t.Fatal("expected error for invalid CUE syntax")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
	}
	if actionable.Op != "load configuration" {
		t.Errorf("op = %q, want load configuration", actionable.Op)
	}
	if actionable.Path != cuePath {
		t.Errorf("path = %q, want %q", actionable.Path, cuePath)
	}
	if len(actionable.Hints) == 0 {
		t.Error("expected hints on config load failure")
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	tmpDir := t.TempDir()
	restore := OverrideConfigDir(tmpDir)
	defer restore()

	cuePath := filepath.Join(tmpDir, "config.cue")
	if err := os.WriteFile(cuePath, []byte(`lib_sdir: "a/b"`), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err == nil {
		t.Fatal("expected error for schema violation")
	}
	if !strings.Contains(err.Error(), "lib_sdir") {
		t.Errorf("error should name the offending field, got: %v", err)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		tmpDir := t.TempDir()
		cuePath := filepath.Join(tmpDir, "custom.cue")
		if err := os.WriteFile(cuePath, []byte(`lib_sdir: ".vendored"`), 0o644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg, resolved, err := NewProvider().LoadResolved(context.Background(), LoadOptions{File: cuePath})
		if err != nil {
			t.Fatalf("LoadResolved() failed: %v", err)
		}
		if resolved != cuePath {
			t.Errorf("resolved path = %q, want %q", resolved, cuePath)
		}
		if cfg.LibSdir != ".vendored" {
			t.Errorf("lib sdir = %q, want .vendored", cfg.LibSdir)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.cue")

		_, err := NewProvider().Load(context.Background(), LoadOptions{File: missing})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}

		var actionable *issue.ActionableError
		if !errors.As(err, &actionable) {
			t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
		}
		if actionable.Path != missing {
			t.Errorf("path = %q, want %q", actionable.Path, missing)
		}
	})

	t.Run("invalid content", func(t *testing.T) {
		cuePath := filepath.Join(t.TempDir(), "custom.cue")
		if err := os.WriteFile(cuePath, []byte(`inspect_suffixes: ["so"]`), 0o644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		_, err := NewProvider().Load(context.Background(), LoadOptions{File: cuePath})
		if err == nil {
			t.Fatal("expected error for schema violation in custom config file")
		}
	})
}

func TestLoad_EnvOverride(t *testing.T) {
	restore := OverrideConfigDir(t.TempDir())
	defer restore()

	t.Setenv("DELOCATE_LIB_SDIR", ".libs")
	t.Setenv("DELOCATE_UI_VERBOSE", "true")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.LibSdir != ".libs" {
		t.Errorf("lib sdir = %q, want .libs from DELOCATE_LIB_SDIR", cfg.LibSdir)
	}
	if !cfg.UI.Verbose {
		t.Error("expected verbose to be true from DELOCATE_UI_VERBOSE")
	}
}

func TestLoad_EnvOverrideBeatsFile(t *testing.T) {
	tmpDir := t.TempDir()
	restore := OverrideConfigDir(tmpDir)
	defer restore()

	cuePath := filepath.Join(tmpDir, "config.cue")
	if err := os.WriteFile(cuePath, []byte(`lib_sdir: ".from_file"`), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("DELOCATE_LIB_SDIR", ".from_env")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LibSdir != ".from_env" {
		t.Errorf("lib sdir = %q, want .from_env (env should beat file)", cfg.LibSdir)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	restore := OverrideConfigDir(t.TempDir())
	defer restore()

	// Environment values bypass CUE validation, so the Go-side check
	// has to catch them.
	t.Setenv("DELOCATE_LIB_SDIR", "bad/name")

	_, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err == nil {
		t.Fatal("expected error for invalid env override")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", err)
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
	}
	if actionable.Op != "validate configuration" {
		t.Errorf("op = %q, want validate configuration", actionable.Op)
	}
}

func TestLoad_ContextCanceled(t *testing.T) {
	restore := OverrideConfigDir(t.TempDir())
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got: %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	restore := OverrideConfigDir(tmpDir)
	defer restore()

	cfg := DefaultConfig()
	cfg.LibSdir = ".vendored"
	cfg.UI.Verbose = true

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, resolved, err := NewProvider().LoadResolved(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadResolved() after Save() failed: %v", err)
	}
	if resolved != filepath.Join(tmpDir, "config.cue") {
		t.Errorf("resolved path = %q, want %q", resolved, filepath.Join(tmpDir, "config.cue"))
	}
	if loaded.LibSdir != ".vendored" {
		t.Errorf("lib sdir = %q, want .vendored", loaded.LibSdir)
	}
	if !loaded.UI.Verbose {
		t.Error("expected verbose to be true after round trip")
	}
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	restore := OverrideConfigDir(t.TempDir())
	defer restore()

	cfg := DefaultConfig()
	cfg.LibSdir = "a/b"

	if err := Save(cfg); err == nil {
		t.Fatal("expected Save() to reject a config that fails schema validation")
	}
}

func TestGenerateCUE(t *testing.T) {
	content := GenerateCUE(DefaultConfig())

	for _, want := range []string{
		"// delocate configuration file",
		`lib_sdir: ".dylibs"`,
		`"/usr/lib"`,
		`"/System"`,
		`".so"`,
		`".dylib"`,
		`color_scheme: "auto"`,
		"verbose: false",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("generated CUE missing %q:\n%s", want, content)
		}
	}
}
