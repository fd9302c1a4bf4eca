// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FindPackageDirs returns the directories directly under root that hold an
// importable package, identified by the presence of an __init__.py file.
// Results are sorted and joined onto root.
func FindPackageDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "__init__.py")); err == nil {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
