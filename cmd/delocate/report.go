// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/noxdafox/delocate/pkg/delocate"
)

// sortedKeys returns the keys of a string-keyed map in deterministic order.
func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// printCopied writes a styled summary of a delocation result. Each entry
// names the original location of a vendored library and how many files in
// the tree depend on it.
func printCopied(w io.Writer, copied delocate.CopiedLibs, dest string) {
	if len(copied) == 0 {
		fmt.Fprintf(w, "%s Nothing to vendor: all dependencies are system or excluded libraries\n", infoIcon)
		return
	}

	noun := "libraries"
	if len(copied) == 1 {
		noun = "library"
	}
	fmt.Fprintf(w, "%s Vendored %d %s into %s\n", successIcon, len(copied), noun, LibStyle.Render(dest))

	for _, lib := range sortedKeys(copied) {
		depending := len(copied[lib])
		detail := fmt.Sprintf("(required by %d file", depending)
		if depending != 1 {
			detail += "s"
		}
		detail += ")"
		fmt.Fprintf(w, "  %s %s\n", LibStyle.Render(lib), SubtitleStyle.Render(detail))
	}
}
