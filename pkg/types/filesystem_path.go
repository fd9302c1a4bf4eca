// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// FilesystemPath is a path argument as received from the user, absolute
// or relative. The zero value is invalid: a path must point somewhere.
type FilesystemPath string

// ErrInvalidFilesystemPath is wrapped by every InvalidFilesystemPathError,
// for errors.Is checks.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

// InvalidFilesystemPathError reports an empty or whitespace-only path.
type InvalidFilesystemPathError struct {
	Value FilesystemPath
}

func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must not be empty", e.Value)
}

func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

// Validate rejects empty and whitespace-only paths. Existence is not
// checked; commands surface missing files when they open them.
func (p FilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

func (p FilesystemPath) String() string { return string(p) }
