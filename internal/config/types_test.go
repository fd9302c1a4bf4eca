// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

// checkIsValid exercises IsValid on every value in good and bad. Errors
// reported for bad values must wrap sentinel.
func checkIsValid[T interface {
	~string
	IsValid() (bool, []error)
}](t *testing.T, sentinel error, good, bad []T) {
	t.Helper()

	for _, v := range good {
		ok, errs := v.IsValid()
		if !ok {
			t.Errorf("%T(%q).IsValid() = false, want true", v, string(v))
		}
		if len(errs) > 0 {
			t.Errorf("%T(%q).IsValid() returned errors for valid value: %v", v, string(v), errs)
		}
	}

	for _, v := range bad {
		ok, errs := v.IsValid()
		if ok {
			t.Errorf("%T(%q).IsValid() = true, want false", v, string(v))
			continue
		}
		if len(errs) == 0 {
			t.Errorf("%T(%q).IsValid() reported invalid without errors", v, string(v))
			continue
		}
		if !errors.Is(errs[0], sentinel) {
			t.Errorf("%T(%q).IsValid() error does not wrap the sentinel: %v", v, string(v), errs[0])
		}
	}
}

func TestLibSdirIsValid(t *testing.T) {
	t.Parallel()

	checkIsValid(t, ErrInvalidLibSdir,
		[]LibSdir{DefaultLibSdir, ".libs", "vendored"},
		[]LibSdir{"", "   ", "a/b", `a\b`})
}

func TestExcludePrefixIsValid(t *testing.T) {
	t.Parallel()

	checkIsValid(t, ErrInvalidExcludePrefix,
		[]ExcludePrefix{"/usr/lib", "/System", "@rpath"},
		[]ExcludePrefix{"", "  \t "})
}

func TestInspectSuffixIsValid(t *testing.T) {
	t.Parallel()

	checkIsValid(t, ErrInvalidInspectSuffix,
		[]InspectSuffix{".so", ".dylib"},
		[]InspectSuffix{"", ".", "so"})
}

func TestColorSchemeIsValid(t *testing.T) {
	t.Parallel()

	checkIsValid(t, ErrInvalidColorScheme,
		[]ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight},
		[]ColorScheme{"", "garbage", "AUTO", "Dark"})
}

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		isValid, errs := DefaultConfig().IsValid()
		if !isValid {
			t.Errorf("DefaultConfig().IsValid() = false, errors: %v", errs)
		}
	})

	t.Run("collects field errors", func(t *testing.T) {
		t.Parallel()
		cfg := Config{
			LibSdir:         "bad/name",
			ExcludePrefixes: []ExcludePrefix{"/usr/lib", " "},
			InspectSuffixes: []InspectSuffix{".so", "so"},
			UI:              UIConfig{ColorScheme: "neon"},
		}

		isValid, errs := cfg.IsValid()
		if isValid {
			t.Fatal("expected invalid config")
		}
		if len(errs) != 1 {
			t.Fatalf("expected a single wrapping error, got %d", len(errs))
		}
		if !errors.Is(errs[0], ErrInvalidConfig) {
			t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
		}

		var configErr *InvalidConfigError
		if !errors.As(errs[0], &configErr) {
			t.Fatalf("error should be *InvalidConfigError, got: %T", errs[0])
		}
		if len(configErr.FieldErrors) != 4 {
			t.Errorf("expected 4 field errors, got %d: %v", len(configErr.FieldErrors), configErr.FieldErrors)
		}
	})
}

func TestConfigFilterStrings(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	prefixes := cfg.ExcludePrefixStrings()
	if len(prefixes) != 2 || prefixes[0] != "/usr/lib" || prefixes[1] != "/System" {
		t.Errorf("ExcludePrefixStrings() = %v, want [/usr/lib /System]", prefixes)
	}

	suffixes := cfg.InspectSuffixStrings()
	if len(suffixes) != 2 || suffixes[0] != ".so" || suffixes[1] != ".dylib" {
		t.Errorf("InspectSuffixStrings() = %v, want [.so .dylib]", suffixes)
	}
}
