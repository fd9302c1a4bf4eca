// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto follows the terminal's reported background, the
	// other two pin the palette.
	ColorSchemeAuto  ColorScheme = "auto"
	ColorSchemeDark  ColorScheme = "dark"
	ColorSchemeLight ColorScheme = "light"

	// DefaultLibSdir is the subdirectory created inside each package to
	// hold vendored libraries when no override is configured.
	DefaultLibSdir LibSdir = ".dylibs"
)

// Sentinel errors for errors.Is checks. Each Invalid*Error below wraps
// its sentinel through Unwrap.
var (
	ErrInvalidColorScheme   = errors.New("invalid color scheme")
	ErrInvalidLibSdir       = errors.New("invalid lib sdir")
	ErrInvalidExcludePrefix = errors.New("invalid exclude prefix")
	ErrInvalidInspectSuffix = errors.New("invalid inspect suffix")
	ErrInvalidUIConfig      = errors.New("invalid UI config")
	ErrInvalidConfig        = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette for rendered output.
	ColorScheme string

	// InvalidColorSchemeError reports a color scheme outside the three
	// defined values.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LibSdir is the name of the subdirectory that receives vendored
	// libraries inside each package of a wheel or tree. It is a single
	// path component; a valid value is non-empty and contains no
	// path separator.
	LibSdir string

	// InvalidLibSdirError reports a LibSdir that is empty, whitespace-only,
	// or contains a path separator.
	InvalidLibSdirError struct {
		Value LibSdir
	}

	// ExcludePrefix is an install-name prefix whose libraries are never
	// vendored (e.g. "/usr/lib"). A valid value is non-empty and not
	// whitespace-only.
	ExcludePrefix string

	// InvalidExcludePrefixError reports an empty or whitespace-only
	// ExcludePrefix.
	InvalidExcludePrefixError struct {
		Value ExcludePrefix
	}

	// InspectSuffix is a file name suffix inspected for library
	// dependencies (e.g. ".dylib"). A valid value starts with a dot and
	// has at least one character after it.
	InspectSuffix string

	// InvalidInspectSuffixError reports an InspectSuffix that does not
	// start with a dot or is a lone dot.
	InvalidInspectSuffixError struct {
		Value InspectSuffix
	}

	// InvalidUIConfigError collects the field-level validation errors of
	// a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects the field-level validation errors of a
	// Config across all of its sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the full application configuration as the loader hands it
	// to commands.
	Config struct {
		// LibSdir names the subdirectory created inside each package to
		// hold vendored libraries.
		LibSdir LibSdir `json:"lib_sdir" mapstructure:"lib_sdir"`
		// ExcludePrefixes lists install-name prefixes that are never vendored.
		ExcludePrefixes []ExcludePrefix `json:"exclude_prefixes" mapstructure:"exclude_prefixes"`
		// InspectSuffixes lists file name suffixes inspected for dependencies.
		InspectSuffixes []InspectSuffix `json:"inspect_suffixes" mapstructure:"inspect_suffixes"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose turns on debug-level logging for every command.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

func (s LibSdir) String() string { return string(s) }

// IsValid reports whether s can serve as the vendored-library directory
// name: non-empty, not all whitespace, and free of path separators.
func (s LibSdir) IsValid() (bool, []error) {
	if strings.TrimSpace(string(s)) == "" || strings.ContainsAny(string(s), `/\`) {
		return false, []error{&InvalidLibSdirError{Value: s}}
	}
	return true, nil
}

func (e *InvalidLibSdirError) Error() string {
	return fmt.Sprintf("invalid lib sdir %q: must be a non-empty directory name without path separators", e.Value)
}

func (e *InvalidLibSdirError) Unwrap() error { return ErrInvalidLibSdir }

func (p ExcludePrefix) String() string { return string(p) }

// IsValid reports whether p is usable as a filter prefix. Only blank
// values are rejected; any other string can legitimately start an
// install name.
func (p ExcludePrefix) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidExcludePrefixError{Value: p}}
	}
	return true, nil
}

func (e *InvalidExcludePrefixError) Error() string {
	return fmt.Sprintf("invalid exclude prefix %q: must be non-empty", e.Value)
}

func (e *InvalidExcludePrefixError) Unwrap() error { return ErrInvalidExcludePrefix }

func (s InspectSuffix) String() string { return string(s) }

// IsValid reports whether s names a real extension: a dot followed by at
// least one character.
func (s InspectSuffix) IsValid() (bool, []error) {
	if len(s) < 2 || s[0] != '.' {
		return false, []error{&InvalidInspectSuffixError{Value: s}}
	}
	return true, nil
}

func (e *InvalidInspectSuffixError) Error() string {
	return fmt.Sprintf("invalid inspect suffix %q: must start with a dot followed by at least one character", e.Value)
}

func (e *InvalidInspectSuffixError) Unwrap() error { return ErrInvalidInspectSuffix }

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (cs ColorScheme) String() string { return string(cs) }

// IsValid reports whether cs is one of the three defined schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// IsValid validates every field and wraps any failures in a single
// InvalidUIConfigError.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("ui config has %d invalid field(s)", len(e.FieldErrors))
}

func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid validates the whole configuration, walking every section and
// collecting field errors into a single InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.LibSdir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, prefix := range c.ExcludePrefixes {
		if valid, fieldErrs := prefix.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, suffix := range c.InspectSuffixes {
		if valid, fieldErrs := suffix.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("config has %d invalid field(s)", len(e.FieldErrors))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// ExcludePrefixStrings returns the exclude prefixes as plain strings for
// callers that build path filters.
func (c *Config) ExcludePrefixStrings() []string {
	out := make([]string, len(c.ExcludePrefixes))
	for i, prefix := range c.ExcludePrefixes {
		out[i] = string(prefix)
	}
	return out
}

// InspectSuffixStrings returns the inspect suffixes as plain strings for
// callers that build path filters.
func (c *Config) InspectSuffixStrings() []string {
	out := make([]string, len(c.InspectSuffixes))
	for i, suffix := range c.InspectSuffixes {
		out[i] = string(suffix)
	}
	return out
}

// DefaultConfig returns the configuration used when no file and no
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		LibSdir:         DefaultLibSdir,
		ExcludePrefixes: []ExcludePrefix{"/usr/lib", "/System"},
		InspectSuffixes: []InspectSuffix{".so", ".dylib"},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
