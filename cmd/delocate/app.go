// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/noxdafox/delocate/internal/config"
	"github.com/noxdafox/delocate/internal/issue"
)

type (
	// App is the composition root for the CLI layer. Every Cobra handler
	// receives one and reaches configuration and the output streams through
	// it instead of touching package globals.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies lists the seams NewApp accepts. Fields left nil get
	// production defaults, so a test overrides only the piece it exercises.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider is the configuration dependency of the CLI layer,
	// satisfied in production by config.NewProvider.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		LoadResolved(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp builds an App, filling omitted dependencies with defaults.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfigOrDefaults loads configuration via the provider. When the user
// explicitly requested a config file with --config, a load failure is fatal.
// Otherwise the failure is reported as a warning and defaults keep the
// command operational, which is the common case on fresh installs.
func (a *App) loadConfigOrDefaults(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{File: cfgFile})
	if err == nil {
		return cfg, nil
	}

	if cfgFile != "" {
		return nil, newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+displayError(err, verbose))
	return config.DefaultConfig(), nil
}
