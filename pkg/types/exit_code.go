// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ExitCode is a process exit status. POSIX constrains it to 0 through
// 255; the zero value means success.
type ExitCode int

// ErrInvalidExitCode is wrapped by every InvalidExitCodeError, for
// errors.Is checks.
var ErrInvalidExitCode = errors.New("invalid exit code")

// InvalidExitCodeError reports an ExitCode outside 0-255.
type InvalidExitCodeError struct {
	Value ExitCode
}

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d outside the valid range 0-255", e.Value)
}

func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate rejects codes that cannot be represented as a process exit
// status.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code signals successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
