// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/noxdafox/delocate/internal/issue"
	"github.com/noxdafox/delocate/pkg/types"
)

// ExitError carries a process exit code through the RunE return path so
// commands never call os.Exit themselves. Execute inspects the chain and
// exits with Code after all deferred cleanup has run.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ServiceError pairs an error with presentation hints for the top-level
// handler: an optional pre-styled message and an optional issue catalog ID
// whose help text is shown after the message. Construct through
// newServiceError, which rejects a nil cause.
type ServiceError struct {
	// Err is the wrapped cause, never nil for a constructed ServiceError.
	Err error
	// IssueID selects the catalog entry to render, zero for none.
	IssueID issue.Id
	// StyledMessage is printed verbatim before any catalog help.
	StyledMessage string
}

func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("newServiceError: nil cause")
	}
	return &ServiceError{Err: err, IssueID: issueID, StyledMessage: styledMessage}
}

func (e *ServiceError) Error() string { return e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError writes the styled message followed by the issue help
// section, skipping whichever parts the error does not carry.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return
	}
	help, err := entry.Render("dark")
	if err != nil {
		slog.Warn("rendering issue help failed", "issue", svcErr.IssueID, "error", err)
		return
	}
	fmt.Fprint(stderr, help)
}
