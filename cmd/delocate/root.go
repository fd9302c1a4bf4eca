// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/noxdafox/delocate/internal/config"
	"github.com/noxdafox/delocate/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Build metadata, overridden at release time through -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var (
	// verbose mirrors --verbose and, when the flag is absent, ui.verbose
	// from the configuration file.
	verbose bool
	// cfgFile holds the --config override, empty for the default location.
	cfgFile string
)

// newRootCommand creates the base command and attaches all subcommands.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "delocate",
		Short: "Vendor external shared libraries into wheels and trees",
		Long: TitleStyle.Render("delocate") + SubtitleStyle.Render(" - Vendor external shared libraries into wheels and trees") + `

delocate finds the external shared libraries that the Mach-O binaries
in a macOS wheel or directory tree link against, copies them into a
private library directory, and rewrites install names so every binary
resolves its dependencies relative to itself via @loader_path.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Build your wheel as usual
  2. Run delocate wheel on it
  3. Ship the self-contained wheel

` + SubtitleStyle.Render("Examples:") + `
  delocate listdeps dist/pkg-1.0-cp312-macosx_11_0_arm64.whl
  delocate wheel dist/pkg-1.0-cp312-macosx_11_0_arm64.whl
  delocate path ./build/lib --lib-path ./build/lib/.dylibs
  delocate config show`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Promote verbosity from config before wiring the log handler so
			// the debug level takes effect for the whole command run.
			if !verbose {
				if cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{File: cfgFile}); err == nil {
					verbose = cfg.UI.Verbose
				}
			}
			initLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output with debug-level logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file to use instead of the default location")

	rootCmd.AddCommand(newWheelCommand(app))
	rootCmd.AddCommand(newPathCommand(app))
	rootCmd.AddCommand(newListdepsCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// initLogging installs a charm log handler as the slog default so every
// package logs through the same styled stderr writer.
func initLogging() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "delocate",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
}

func versionString() string {
	if Version == "dev" {
		return "dev (source build)"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and is the only entry point main calls. Errors
// surfaced by command handlers have already been classified into
// ServiceError and ExitError wrappers, so this only renders and exits.
func Execute() {
	app := NewApp(Dependencies{})

	// fang supplies the styled help and version output. The version must go
	// through fang.WithVersion because fang ignores rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			renderServiceError(os.Stderr, svcErr)
		}
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps err to the process exit status: an ExitError carries
// its own code, anything else is a plain failure.
func exitCodeFor(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return 1
}

// displayError prefers the hint-rich ActionableError rendering when the
// chain carries one, with the full chain in verbose mode.
func displayError(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
