// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/noxdafox/delocate/internal/config"
	"github.com/noxdafox/delocate/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// newConfigCommand builds the `delocate config` command tree. Every
// subcommand that reads configuration goes through the App's provider so
// tests can substitute one.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit delocate configuration",
		Long: `Inspect and edit delocate configuration.

The config file lives at:
  Linux:   ~/.config/delocate/config.cue
  macOS:   ~/Library/Application Support/delocate/config.cue
  Windows: %APPDATA%\delocate\config.cue

Any value can be overridden per invocation with a DELOCATE_* environment
variable, e.g. DELOCATE_LIB_SDIR.`,
	}

	cfgCmd.AddCommand(
		newConfigShowCommand(app),
		newConfigInitCommand(app),
		newConfigPathCommand(app),
		newConfigSetCommand(app),
		newConfigDumpCommand(app),
	)

	return cfgCmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	var asTOML bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, asTOML)
		},
	}
	showCmd.Flags().BoolVar(&asTOML, "toml", false, "render the effective configuration as TOML")
	return showCmd
}

func newConfigInitCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	}
}

func newConfigPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	}
}

func newConfigSetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a single configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	}
}

func newConfigDumpCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{File: cfgFile})
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	}
}

func showConfig(ctx context.Context, app *App, asTOML bool) error {
	cfg, resolvedPath, err := app.Config.LoadResolved(ctx, config.LoadOptions{File: cfgFile})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(app.stderr, rendered)
		return err
	}

	if asTOML {
		out, tomlErr := configTOML(cfg)
		if tomlErr != nil {
			return tomlErr
		}
		fmt.Fprint(app.stdout, out)
		return nil
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(built-in defaults)")
	if resolvedPath != "" {
		source = resolvedPath
	}
	fmt.Fprintf(w, "%s: %s\n\n", LibStyle.Render("Config file"), source)

	fmt.Fprintf(w, "%s: %s\n", LibStyle.Render("lib_sdir"), SuccessStyle.Render(cfg.LibSdir.String()))

	printList := func(name string, values []string) {
		fmt.Fprintf(w, "\n%s:\n", LibStyle.Render(name))
		if len(values) == 0 {
			fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(empty)"))
			return
		}
		for _, v := range values {
			fmt.Fprintf(w, "  - %s\n", SuccessStyle.Render(v))
		}
	}
	printList("exclude_prefixes", cfg.ExcludePrefixStrings())
	printList("inspect_suffixes", cfg.InspectSuffixStrings())

	fmt.Fprintf(w, "\n%s:\n", LibStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", SuccessStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

// configFileLocation returns the path the config file occupies, whether
// or not it exists yet.
func configFileLocation() (string, error) {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}

func initConfig(app *App) error {
	cfgPath, err := configFileLocation()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", successIcon, cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgPath, err := configFileLocation()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	fmt.Fprintf(app.stdout, "Config directory: %s\n", filepath.Dir(cfgPath))
	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{File: cfgFile})
	if err != nil {
		return err
	}

	switch key {
	case "lib_sdir":
		sdir := config.LibSdir(value)
		if ok, errs := sdir.IsValid(); !ok {
			return fmt.Errorf("invalid lib_sdir: %w", errors.Join(errs...))
		}
		cfg.LibSdir = sdir

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if ok, errs := scheme.IsValid(); !ok {
			return fmt.Errorf("invalid ui.color_scheme: %w", errors.Join(errs...))
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "exclude_prefixes", "inspect_suffixes":
		return fmt.Errorf("%s is a list and cannot be set from the command line; edit the config file directly (see `delocate config path`)", key)

	default:
		return fmt.Errorf("unknown configuration key %q (valid keys: lib_sdir, ui.color_scheme, ui.verbose)", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", successIcon, key, value)
	return nil
}

// tomlConfig is the plain rendering of Config emitted by `config show --toml`.
// It flattens the validated field types to strings so the output is easy to
// consume from scripts and other tools.
type tomlConfig struct {
	LibSdir         string       `toml:"lib_sdir"`
	ExcludePrefixes []string     `toml:"exclude_prefixes"`
	InspectSuffixes []string     `toml:"inspect_suffixes"`
	UI              tomlUIConfig `toml:"ui"`
}

type tomlUIConfig struct {
	ColorScheme string `toml:"color_scheme"`
	Verbose     bool   `toml:"verbose"`
}

func configTOML(cfg *config.Config) (string, error) {
	view := tomlConfig{
		LibSdir:         cfg.LibSdir.String(),
		ExcludePrefixes: cfg.ExcludePrefixStrings(),
		InspectSuffixes: cfg.InspectSuffixStrings(),
		UI: tomlUIConfig{
			ColorScheme: cfg.UI.ColorScheme.String(),
			Verbose:     cfg.UI.Verbose,
		},
	}

	out, err := toml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("rendering TOML: %w", err)
	}
	return string(out), nil
}
