// SPDX-License-Identifier: MPL-2.0

package delocate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/noxdafox/delocate/pkg/fspath"
	"github.com/noxdafox/delocate/pkg/macho"
	"github.com/noxdafox/delocate/pkg/wheel"
)

// RequiringFiles maps a depending file to the install name it uses for a
// required library.
type RequiringFiles map[string]string

// LibGraph maps each required library to the files depending on it.
// Required libraries are canonical paths, except @rpath, @loader_path and
// @executable_path references which are kept verbatim.
type LibGraph map[string]RequiringFiles

// FileSet is a set of file paths.
type FileSet map[string]bool

// CopiedLibs maps the original location of each vendored library to the
// set of files depending on it.
type CopiedLibs map[string]FileSet

// FilterFunc reports whether a path takes part in an operation. A nil
// FilterFunc accepts every path.
type FilterFunc func(path string) bool

// TreeLibs walks the tree under startPath and records the install names
// of every inspected file. filt limits which files are inspected, not
// which dependencies get recorded. A later sighting of the same required
// library by the same depending file overwrites the recorded install name.
func TreeLibs(startPath string, filt FilterFunc) (LibGraph, error) {
	libDict := LibGraph{}
	err := filepath.WalkDir(startPath, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		dependingPath := fspath.Realpath(path)
		if filt != nil && !filt(dependingPath) {
			return nil
		}
		info, err := os.Stat(dependingPath)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", path, err)
		}
		if info.IsDir() {
			// Symlink to a directory, nothing to inspect.
			return nil
		}
		names, err := macho.InstallNames(dependingPath)
		if err != nil {
			return fmt.Errorf("reading install names of %s: %w", dependingPath, err)
		}
		for _, name := range names {
			libPath := name
			if !strings.HasPrefix(name, "@") {
				libPath = fspath.Realpath(name)
			}
			requirings, ok := libDict[libPath]
			if !ok {
				requirings = RequiringFiles{}
				libDict[libPath] = requirings
			}
			requirings[dependingPath] = name
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", startPath, err)
	}
	return libDict, nil
}

// WheelLibs expands the wheel into a scratch directory and merges TreeLibs
// over every package directory it holds. Paths under the wheel root are
// reported relative to it.
func WheelLibs(wheelFname string, filt FilterFunc) (LibGraph, error) {
	libDict := LibGraph{}
	err := wheel.InWheel(wheelFname, func(tmpRoot string) error {
		tmpReal := fspath.Realpath(tmpRoot)
		pkgDirs, err := wheel.FindPackageDirs(tmpRoot)
		if err != nil {
			return err
		}
		for _, pkgDir := range pkgDirs {
			pkgDict, err := TreeLibs(pkgDir, filt)
			if err != nil {
				return err
			}
			for required, requirings := range pkgDict {
				key := relativeToRoot(tmpReal, required)
				merged, ok := libDict[key]
				if !ok {
					merged = RequiringFiles{}
					libDict[key] = merged
				}
				for depending, name := range requirings {
					merged[relativeToRoot(tmpReal, depending)] = name
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting libraries of %s: %w", wheelFname, err)
	}
	return libDict, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func fileSet(requirings RequiringFiles) FileSet {
	set := make(FileSet, len(requirings))
	for requiring := range requirings {
		set[requiring] = true
	}
	return set
}
