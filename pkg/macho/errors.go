// SPDX-License-Identifier: MPL-2.0

package macho

import (
	"errors"
	"fmt"
)

// ErrNotMachO reports that a file does not start with a recognized Mach-O or
// fat magic number. Errors returned by this package wrap it, so callers can
// test with errors.Is.
var ErrNotMachO = errors.New("not a Mach-O file")

// NameNotFoundError reports that a rewrite referenced an install name that is
// not recorded in any load command of the file. An empty Name means the file
// carries no install id at all.
type NameNotFoundError struct {
	File string
	Name string
}

func (e *NameNotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: no install id recorded", e.File)
	}
	return fmt.Sprintf("%s: install name %q not recorded", e.File, e.Name)
}

// NoSpaceError reports that rewritten load commands would overflow the space
// available before the first section's data begins.
type NoSpaceError struct {
	File string
	Need uint32
	Have uint32
}

func (e *NoSpaceError) Error() string {
	return fmt.Sprintf("%s: rewritten load commands need %d bytes but only %d fit before section data", e.File, e.Need, e.Have)
}
