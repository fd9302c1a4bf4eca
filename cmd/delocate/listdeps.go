// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/noxdafox/delocate/pkg/delocate"
	"github.com/noxdafox/delocate/pkg/types"

	"github.com/spf13/cobra"
)

// newListdepsCommand creates the `delocate listdeps` command.
func newListdepsCommand(app *App) *cobra.Command {
	var (
		all       bool
		depending bool
	)

	cmd := &cobra.Command{
		Use:   "listdeps <wheel-or-tree>",
		Short: "List the external libraries a wheel or tree depends on",
		Long: `List the external shared libraries the binaries in a wheel or tree link against.

Dependencies are printed sorted and deduplicated. System libraries and other
configured exclude prefixes are hidden unless --all is given. With
--depending, every library is followed by the files that require it.

A plain file argument is inspected directly, which lists the dependencies of
a single binary.

Examples:
  delocate listdeps dist/pkg-1.0-cp312-macosx_11_0_arm64.whl
  delocate listdeps ./build/lib
  delocate listdeps --all --depending ./build/lib
  delocate listdeps ./build/lib/pkg/_ext.so`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListdeps(cmd.Context(), app, args[0], all, depending)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include system and excluded libraries")
	cmd.Flags().BoolVar(&depending, "depending", false, "show the files requiring each library")

	return cmd
}

func runListdeps(ctx context.Context, app *App, target string, all, depending bool) error {
	if err := types.FilesystemPath(target).Validate(); err != nil {
		return err
	}

	cfg, err := app.loadConfigOrDefaults(ctx)
	if err != nil {
		return err
	}

	libs, err := libGraphFor(target, buildLibFilter(cfg, false))
	if err != nil {
		return wrapDelocateError(err)
	}
	recorded := len(libs)
	if !all {
		keep := buildCopyFilter(cfg, nil)
		for lib := range libs {
			if !keep(lib) {
				delete(libs, lib)
			}
		}
	}
	if verbose {
		fmt.Fprintln(app.stderr,
			VerboseStyle.Render(fmt.Sprintf("Dependencies: %d listed (%d recorded)", len(libs), recorded)))
	}

	fmt.Fprint(app.stdout, formatLibGraph(libs, depending))
	return nil
}

// isWheelPath reports whether a path names a wheel archive.
func isWheelPath(path string) bool {
	return strings.HasSuffix(path, ".whl")
}

// libGraphFor builds the dependency graph for a wheel archive or a
// directory tree. A directory named like a wheel is still walked as a tree,
// and a plain file named directly is inspected regardless of its suffix.
func libGraphFor(target string, filt delocate.FilterFunc) (delocate.LibGraph, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", target, err)
	}
	if info.IsDir() {
		return delocate.TreeLibs(target, filt)
	}
	if isWheelPath(target) {
		return delocate.WheelLibs(target, filt)
	}
	return delocate.TreeLibs(target, nil)
}

// formatLibGraph renders a dependency graph one library per line in sorted
// order. With depending set, each library is followed by its requirers,
// indented beneath it.
func formatLibGraph(libs delocate.LibGraph, depending bool) string {
	var sb strings.Builder
	for _, lib := range sortedKeys(libs) {
		sb.WriteString(LibStyle.Render(lib))
		sb.WriteString("\n")
		if !depending {
			continue
		}
		for _, requiring := range sortedKeys(libs[lib]) {
			sb.WriteString("    ")
			sb.WriteString(SubtitleStyle.Render(requiring))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
