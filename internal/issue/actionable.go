// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError annotates a failure with the operation that was
// running, the path it touched, and hints on how to get past it. The CLI
// prints the hints under the message; with verbose output it adds the
// full unwrap chain.
type ActionableError struct {
	// Op is the operation that failed, as a verb phrase
	// ("load configuration", "copy library").
	Op string

	// Path is the file or directory involved. May be empty.
	Path string

	// Hints are remediation steps shown beneath the message.
	Hints []string

	// Err is the underlying cause.
	Err error
}

// NewActionable builds an ActionableError. path may be empty when the
// failure is not tied to one location.
func NewActionable(op, path string, err error, hints ...string) *ActionableError {
	return &ActionableError{Op: op, Path: path, Hints: hints, Err: err}
}

// Error returns "<op>: <path>: <cause>", omitting empty parts.
func (e *ActionableError) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Err
}

// Format renders the error for terminal output: the message, then one
// bullet per hint. With verbose set and a cause present, the numbered
// unwrap chain follows.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	for _, hint := range e.Hints {
		b.WriteString("\n  • ")
		b.WriteString(hint)
	}

	if verbose && e.Err != nil {
		b.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Err; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, err)
			depth++
		}
	}

	return b.String()
}
