// SPDX-License-Identifier: MPL-2.0

package delocate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/noxdafox/delocate/pkg/fspath"
	"github.com/noxdafox/delocate/pkg/macho"
)

// CopyRecurse copies the dependencies of the libraries already in libPath
// into libPath, then the dependencies of those copies, until a pass adds
// nothing new. copyFilt limits which dependencies are vendored. The input
// index is not mutated; the augmented copy is returned.
func CopyRecurse(libPath string, copyFilt FilterFunc, copied CopiedLibs) (CopiedLibs, error) {
	merged := make(CopiedLibs, len(copied))
	for lib, requirings := range copied {
		set := make(FileSet, len(requirings))
		for requiring := range requirings {
			set[requiring] = true
		}
		merged[lib] = set
	}
	for {
		before := len(merged)
		if err := copyRequired(libPath, copyFilt, merged); err != nil {
			return nil, err
		}
		if len(merged) == before {
			return merged, nil
		}
	}
}

// copyRequired is one pass of CopyRecurse: scan libPath, vendor any
// dependency passing copyFilt that is not vendored yet, and point the
// files in libPath at the local copies. Depending files that are
// themselves copies are recorded under their original location.
func copyRequired(libPath string, copyFilt FilterFunc, copied CopiedLibs) error {
	libDict, err := TreeLibs(libPath, nil)
	if err != nil {
		return err
	}
	libReal := fspath.Realpath(libPath)
	copied2orig := make(map[string]string, len(copied))
	for orig := range copied {
		copied2orig[filepath.Join(libReal, filepath.Base(orig))] = orig
	}

	for _, required := range sortedKeys(libDict) {
		if copyFilt != nil && !copyFilt(required) {
			continue
		}
		if strings.HasPrefix(required, "@") {
			// Either rewritten by an earlier pass or relative on its own terms.
			continue
		}
		base := filepath.Base(required)
		requirings := libDict[required]
		for _, requiring := range sortedKeys(requirings) {
			if err := macho.ChangeInstallName(requiring, requirings[requiring], "@loader_path/"+base); err != nil {
				return err
			}
		}
		procd := make(FileSet, len(requirings))
		for requiring := range requirings {
			if orig, ok := copied2orig[requiring]; ok {
				requiring = orig
			}
			procd[requiring] = true
		}
		if existing, ok := copied[required]; ok {
			for requiring := range procd {
				existing[requiring] = true
			}
			continue
		}
		if err := fspath.CopyFile(required, filepath.Join(libReal, base)); err != nil {
			return fmt.Errorf("copying %s: %w", required, err)
		}
		copied2orig[filepath.Join(libReal, base)] = required
		copied[required] = procd
	}
	return nil
}
