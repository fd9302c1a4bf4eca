// SPDX-License-Identifier: MPL-2.0

package delocate

import (
	"fmt"
	"strings"
)

// BasenameClashError reports two required libraries that would land on the
// same file name in the library directory.
type BasenameClashError struct {
	Basename string
	Paths    []string
}

func (e *BasenameClashError) Error() string {
	return fmt.Sprintf("already planning to copy library with same basename as %s: %s",
		e.Basename, strings.Join(e.Paths, ", "))
}

// MissingLibraryError reports a required library that does not exist at
// plan time.
type MissingLibraryError struct {
	Library string
}

func (e *MissingLibraryError) Error() string {
	return fmt.Sprintf("library %q does not exist", e.Library)
}

// LibDirExistsError reports a wheel that already ships the library
// directory a delocation run would populate.
type LibDirExistsError struct {
	Path string
}

func (e *LibDirExistsError) Error() string {
	return fmt.Sprintf("%s already exists in wheel", e.Path)
}
