// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"path/filepath"

	"github.com/noxdafox/delocate/pkg/delocate"
	"github.com/noxdafox/delocate/pkg/types"

	"github.com/spf13/cobra"
)

// newPathCommand creates the `delocate path` command.
func newPathCommand(app *App) *cobra.Command {
	var (
		libPath    string
		excludes   []string
		inspectAll bool
	)

	cmd := &cobra.Command{
		Use:   "path <tree>",
		Short: "Vendor external libraries into a directory tree",
		Long: `Vendor the external shared libraries a directory tree depends on.

The binaries under the tree are inspected, the external libraries they link
against are copied into a library directory, and install names are
rewritten to @loader_path references, transitive dependencies included.

By default the libraries land in a directory named after the configured
lib_sdir inside the tree itself. If the library directory was created by
this run and nothing needed vendoring, it is removed again.

Examples:
  delocate path ./build/lib
  delocate path ./build/lib --lib-path ./build/lib/.dylibs
  delocate path ./build/lib --exclude /opt/expected
  delocate path ./build/lib --inspect-all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd.Context(), app, args[0], libPath, excludes, inspectAll)
		},
	}

	cmd.Flags().StringVarP(&libPath, "lib-path", "L", "", "directory receiving the vendored libraries (default <tree>/<lib_sdir>)")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "additional install name prefix to leave external (repeatable)")
	cmd.Flags().BoolVar(&inspectAll, "inspect-all", false, "inspect every file in the tree, not just configured suffixes")

	return cmd
}

func runPath(ctx context.Context, app *App, treePath, libPath string, excludes []string, inspectAll bool) error {
	if err := types.FilesystemPath(treePath).Validate(); err != nil {
		return err
	}

	cfg, err := app.loadConfigOrDefaults(ctx)
	if err != nil {
		return err
	}
	if libPath == "" {
		libPath = filepath.Join(treePath, cfg.LibSdir.String())
	}

	copied, err := delocate.Path(treePath, libPath,
		buildLibFilter(cfg, inspectAll), buildCopyFilter(cfg, excludes))
	if err != nil {
		return wrapDelocateError(err)
	}

	printCopied(app.stdout, copied, libPath)
	return nil
}
