// SPDX-License-Identifier: MPL-2.0

package delocate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/noxdafox/delocate/pkg/fspath"
	"github.com/noxdafox/delocate/pkg/wheel"
)

// OnlyDylibs is the default inspection filter: shared libraries and
// compiled extension modules.
func OnlyDylibs(path string) bool {
	return strings.HasSuffix(path, ".so") || strings.HasSuffix(path, ".dylib")
}

// FilterSystemLibs is the default copy filter: it rejects the system
// run-time that every binary links against.
func FilterSystemLibs(path string) bool {
	return !strings.HasPrefix(path, "/usr/lib") && !strings.HasPrefix(path, "/System")
}

// SuffixFilter builds a FilterFunc accepting paths ending in one of the
// given suffixes.
func SuffixFilter(suffixes ...string) FilterFunc {
	return func(path string) bool {
		for _, suffix := range suffixes {
			if strings.HasSuffix(path, suffix) {
				return true
			}
		}
		return false
	}
}

// ExcludePrefixes builds a FilterFunc rejecting paths starting with one of
// the given prefixes.
func ExcludePrefixes(prefixes ...string) FilterFunc {
	return func(path string) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return false
			}
		}
		return true
	}
}

// Path vendors the external libraries required by the tree under treePath
// into libPath, creating it if needed, then recursively vendors the
// dependencies of the vendored copies. libFilt limits which files are
// inspected, copyFilt which libraries are vendored. If this call created
// libPath and nothing landed in it, the directory is removed again.
func Path(treePath, libPath string, libFilt, copyFilt FilterFunc) (CopiedLibs, error) {
	created := false
	if _, err := os.Stat(libPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(libPath, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", libPath, err)
		}
		created = true
	} else if err != nil {
		return nil, fmt.Errorf("checking %s: %w", libPath, err)
	}

	libDict, err := TreeLibs(treePath, libFilt)
	if err != nil {
		return nil, err
	}
	if copyFilt != nil {
		for required := range libDict {
			if !copyFilt(required) {
				delete(libDict, required)
			}
		}
	}

	copied, err := DelocateTreeLibs(libDict, libPath, treePath)
	if err != nil {
		return nil, err
	}
	copied, err = CopyRecurse(libPath, copyFilt, copied)
	if err != nil {
		return nil, err
	}

	if created && len(copied) == 0 {
		if entries, err := os.ReadDir(libPath); err == nil && len(entries) == 0 {
			if err := os.Remove(libPath); err != nil {
				return nil, fmt.Errorf("removing %s: %w", libPath, err)
			}
		}
	}
	return copied, nil
}

// Wheel vendors the external libraries of every package in inWheel into a
// libSdir subdirectory of the package, refreshes the RECORD manifest, and
// writes the result to outWheel. An empty outWheel updates inWheel in
// place; an unchanged in-place wheel is not rewritten. A libSdir directory
// already shipped by a package fails the call once the closure turns out
// non-empty. The returned index reports files inside the wheel relative
// to the wheel root.
func Wheel(inWheel, outWheel, libSdir string, libFilt, copyFilt FilterFunc) (CopiedLibs, error) {
	inWheel, err := filepath.Abs(inWheel)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", inWheel, err)
	}
	if outWheel == "" {
		outWheel = inWheel
	} else if outWheel, err = filepath.Abs(outWheel); err != nil {
		return nil, fmt.Errorf("resolving %s: %w", outWheel, err)
	}
	inPlace := inWheel == outWheel

	tmpRoot, err := os.MkdirTemp("", "delocate-wheel-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpRoot)

	if err := wheel.Unpack(inWheel, tmpRoot); err != nil {
		return nil, err
	}
	tmpReal := fspath.Realpath(tmpRoot)

	allCopied := CopiedLibs{}
	pkgDirs, err := wheel.FindPackageDirs(tmpRoot)
	if err != nil {
		return nil, err
	}
	for _, pkgDir := range pkgDirs {
		libPath := filepath.Join(pkgDir, libSdir)
		_, statErr := os.Stat(libPath)
		libPathExisted := statErr == nil

		copied, err := Path(pkgDir, libPath, libFilt, copyFilt)
		if err != nil {
			return nil, err
		}
		if len(copied) > 0 && libPathExisted {
			return nil, &LibDirExistsError{Path: relativeToRoot(tmpReal, fspath.Realpath(libPath))}
		}
		if entries, err := os.ReadDir(libPath); err == nil && len(entries) == 0 {
			if err := os.RemoveAll(libPath); err != nil {
				return nil, fmt.Errorf("removing %s: %w", libPath, err)
			}
		}
		mergeCopied(allCopied, copied)
	}

	if len(allCopied) > 0 {
		if err := wheel.RewriteRecord(tmpRoot); err != nil {
			return nil, err
		}
	}
	if len(allCopied) > 0 || !inPlace {
		if err := wheel.Pack(tmpRoot, outWheel); err != nil {
			return nil, err
		}
	}
	return relativizeIndex(tmpReal, allCopied), nil
}

func mergeCopied(dst, src CopiedLibs) {
	for lib, requirings := range src {
		existing, ok := dst[lib]
		if !ok {
			dst[lib] = requirings
			continue
		}
		for requiring := range requirings {
			existing[requiring] = true
		}
	}
}

// relativizeIndex rewrites paths under root to be relative to it, leaving
// everything else alone.
func relativizeIndex(root string, copied CopiedLibs) CopiedLibs {
	result := make(CopiedLibs, len(copied))
	for lib, requirings := range copied {
		set := make(FileSet, len(requirings))
		for requiring := range requirings {
			set[relativeToRoot(root, requiring)] = true
		}
		result[relativeToRoot(root, lib)] = set
	}
	return result
}

func relativeToRoot(root, path string) string {
	if !fspath.IsWithin(root, path) {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
