// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/noxdafox/delocate/pkg/delocate"
	"github.com/noxdafox/delocate/pkg/types"

	"github.com/spf13/cobra"
)

// newWheelCommand creates the `delocate wheel` command.
func newWheelCommand(app *App) *cobra.Command {
	var (
		outPath    string
		libSdir    string
		excludes   []string
		inspectAll bool
	)

	cmd := &cobra.Command{
		Use:   "wheel <wheel>",
		Short: "Vendor external libraries into a wheel",
		Long: `Vendor the external shared libraries a wheel depends on into the wheel itself.

Every package in the wheel gets a private library directory holding copies
of the external libraries its binaries link against, including transitive
dependencies. Install names are rewritten to @loader_path references so the
wheel works without the build machine's libraries, and the RECORD manifest
is refreshed to cover the new files.

A wheel that needs no vendoring is left untouched.

Examples:
  delocate wheel dist/pkg-1.0-cp312-macosx_11_0_arm64.whl
  delocate wheel --out fixed/pkg.whl dist/pkg.whl
  delocate wheel --lib-sdir .vendored dist/pkg.whl
  delocate wheel --exclude /opt/expected dist/pkg.whl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWheel(cmd.Context(), app, args[0], outPath, libSdir, excludes, inspectAll)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "w", "", "write the delocated wheel here instead of updating in place")
	cmd.Flags().StringVar(&libSdir, "lib-sdir", "", "name of the library directory inside each package (default from config)")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "additional install name prefix to leave external (repeatable)")
	cmd.Flags().BoolVar(&inspectAll, "inspect-all", false, "inspect every file in the wheel, not just configured suffixes")

	return cmd
}

func runWheel(ctx context.Context, app *App, wheelPath, outPath, libSdir string, excludes []string, inspectAll bool) error {
	if err := types.FilesystemPath(wheelPath).Validate(); err != nil {
		return err
	}

	cfg, err := app.loadConfigOrDefaults(ctx)
	if err != nil {
		return err
	}
	if libSdir == "" {
		libSdir = cfg.LibSdir.String()
	}

	copied, err := delocate.Wheel(wheelPath, outPath, libSdir,
		buildLibFilter(cfg, inspectAll), buildCopyFilter(cfg, excludes))
	if err != nil {
		return wrapDelocateError(err)
	}

	target := outPath
	if target == "" {
		target = wheelPath
	}
	printCopied(app.stdout, copied, target)
	return nil
}
