// SPDX-License-Identifier: MPL-2.0

package delocate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/noxdafox/delocate/pkg/fspath"
	"github.com/noxdafox/delocate/pkg/macho"
)

// DelocateTreeLibs copies the required libraries of libDict into libPath
// and rewrites every depending file to load the copies through
// @loader_path references. Required libraries living inside rootPath stay
// where they are; their dependings are rewritten to relative references
// instead. The whole plan is validated before the first mutation, so a
// basename collision in libPath or a missing required library fails the
// call with the tree untouched. Opaque @-prefixed references are left
// alone with a warning.
//
// The returned index maps each copied library, keyed by its original
// location, to the files depending on it.
func DelocateTreeLibs(libDict LibGraph, libPath, rootPath string) (CopiedLibs, error) {
	libReal := fspath.Realpath(libPath)
	rootReal := fspath.Realpath(rootPath)

	var toCopy, toRelink []string
	copiedBasenames := map[string]string{}

	// Validate the whole plan before touching the tree.
	for _, required := range sortedKeys(libDict) {
		if strings.HasPrefix(required, "@") {
			slog.Warn("not processing required path, it begins with @", "required", required)
			continue
		}
		if fspath.IsWithin(rootReal, required) {
			toRelink = append(toRelink, required)
			continue
		}
		base := filepath.Base(required)
		if prev, ok := copiedBasenames[base]; ok {
			return nil, &BasenameClashError{Basename: base, Paths: []string{prev, required}}
		}
		if _, err := os.Stat(required); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &MissingLibraryError{Library: required}
			}
			return nil, fmt.Errorf("checking %s: %w", required, err)
		}
		copiedBasenames[base] = required
		toCopy = append(toCopy, required)
	}

	// Copy external libraries and point their dependings at the copies.
	copied := CopiedLibs{}
	for _, required := range toCopy {
		base := filepath.Base(required)
		if err := fspath.CopyFile(required, filepath.Join(libReal, base)); err != nil {
			return nil, fmt.Errorf("copying %s: %w", required, err)
		}
		requirings := libDict[required]
		for _, requiring := range sortedKeys(requirings) {
			rel, err := fspath.RelativeTo(libReal, filepath.Dir(requiring))
			if err != nil {
				return nil, fmt.Errorf("relativizing %s: %w", libReal, err)
			}
			newName := "@loader_path/" + filepath.ToSlash(rel) + "/" + base
			if err := macho.ChangeInstallName(requiring, requirings[requiring], newName); err != nil {
				return nil, err
			}
		}
		copied[required] = fileSet(requirings)
	}

	// Relink in-tree libraries without copying them.
	for _, required := range toRelink {
		requirings := libDict[required]
		for _, requiring := range sortedKeys(requirings) {
			rel, err := fspath.RelativeTo(required, filepath.Dir(requiring))
			if err != nil {
				return nil, fmt.Errorf("relativizing %s: %w", required, err)
			}
			newName := "@loader_path/" + filepath.ToSlash(rel)
			if err := macho.ChangeInstallName(requiring, requirings[requiring], newName); err != nil {
				return nil, err
			}
		}
	}
	return copied, nil
}
