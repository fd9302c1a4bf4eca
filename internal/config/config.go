// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/noxdafox/delocate/internal/issue"
	"github.com/noxdafox/delocate/pkg/cueutil"
	"github.com/noxdafox/delocate/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName names the per-user configuration directory.
	AppName = "delocate"
	// ConfigFileName and ConfigFileExt form the config file name, config.cue.
	ConfigFileName = "config"
	ConfigFileExt  = "cue"
	// EnvPrefix is the prefix for environment variable overrides
	// (e.g. DELOCATE_LIB_SDIR).
	EnvPrefix = "DELOCATE"
)

//go:embed config_schema.cue
var configSchema string

// configDirOverride redirects ConfigDir during tests. os.UserHomeDir does
// not reliably respect HOME on every platform, so tests point the
// directory at a scratch location instead.
var configDirOverride string

// OverrideConfigDir redirects ConfigDir to dir until the returned restore
// function runs. Tests pass the result straight to t.Cleanup.
func OverrideConfigDir(dir string) (restore func()) {
	prev := configDirOverride
	configDirOverride = dir
	return func() { configDirOverride = prev }
}

// ConfigDir returns the delocate configuration directory for the current
// platform, honoring a test override installed via OverrideConfigDir.
//
//nolint:revive // config.Dir would be ambiguous at call sites, keep the stutter
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	return platform.UserConfigDir(AppName)
}

// configFilePath returns the config file location inside dir.
func configFilePath(dir string) string {
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
}

// loadWithOptions is the single load path behind both Provider methods.
// Precedence, lowest to highest: built-in defaults, the config file,
// DELOCATE_* environment variables.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := newViper()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := mergeConfigFile(v, resolvedPath); err != nil {
			return nil, "", err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate values that reach the struct without passing through CUE,
	// such as environment variable overrides.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewActionable("validate configuration", "", errs[0],
			"Check configured values against 'delocate config --help'",
			"Unset DELOCATE_* environment variables to fall back to the config file")
	}

	return &cfg, resolvedPath, nil
}

// newViper builds a Viper instance seeded with the application defaults
// and wired for DELOCATE_* environment overrides. A config file merged on
// top replaces defaults but still loses to the environment.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("lib_sdir", defaults.LibSdir)
	v.SetDefault("exclude_prefixes", defaults.ExcludePrefixStrings())
	v.SetDefault("inspect_suffixes", defaults.InspectSuffixStrings())
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// resolveConfigFile picks the config file for this load. An explicitly
// requested file must exist; the file at the default location is optional,
// and "" means the load runs on defaults alone.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if !fileExists(opts.File) {
			return "", issue.NewActionable("load configuration", opts.File,
				errors.New("config file not found"),
				"Verify the file path is correct",
				"Check that the file exists and is readable",
				"Use 'delocate config show' to see default configuration")
		}
		return opts.File, nil
	}

	cfgDir := opts.Dir
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}

	cuePath := configFilePath(cfgDir)
	if !fileExists(cuePath) {
		return "", nil
	}
	return cuePath, nil
}

// mergeConfigFile loads path into v, wrapping failures with hints about
// the CUE syntax and schema.
func mergeConfigFile(v *viper.Viper, path string) error {
	if err := loadCUEIntoViper(v, path); err != nil {
		return issue.NewActionable("load configuration", path, err,
			"Check that the file contains valid CUE syntax",
			"Verify the configuration values match the expected schema",
			"See 'delocate config --help' for configuration options")
	}
	return nil
}

// loadCUEIntoViper reads a CUE config file, checks it against the
// #Config schema, and merges the result into v. The document is decoded
// into a map rather than a Config struct so Viper keeps its defaults for
// absent keys and env overrides still apply on top; WithConcrete(false)
// accepts partial files, since every config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.Decode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the configuration directory when absent.
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig writes the default config file, leaving any existing
// file untouched.
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	if fileExists(configFilePath(cfgDir)) {
		return nil
	}
	return Save(DefaultConfig())
}

// Save writes the configuration to the default location. The generated CUE
// is validated against the schema first so a programming error cannot
// produce a config file that later fails to load.
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := configFilePath(cfgDir)

	cueContent := GenerateCUE(cfg)
	if _, err := cueutil.Decode[Config](configSchema, []byte(cueContent), "#Config",
		cueutil.WithFilename(cfgPath)); err != nil {
		return fmt.Errorf("generated config does not satisfy schema: %w", err)
	}

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE renders cfg as a CUE document in the layout config files
// are expected to use.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// delocate configuration file\n")
	sb.WriteString("// See https://github.com/noxdafox/delocate for documentation.\n\n")

	fmt.Fprintf(&sb, "lib_sdir: %q\n", cfg.LibSdir)

	if len(cfg.ExcludePrefixes) > 0 {
		sb.WriteString("\nexclude_prefixes: [\n")
		for _, prefix := range cfg.ExcludePrefixes {
			fmt.Fprintf(&sb, "\t%q,\n", prefix)
		}
		sb.WriteString("]\n")
	}

	if len(cfg.InspectSuffixes) > 0 {
		sb.WriteString("\ninspect_suffixes: [\n")
		for _, suffix := range cfg.InspectSuffixes {
			fmt.Fprintf(&sb, "\t%q,\n", suffix)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
