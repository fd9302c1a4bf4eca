// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"

	"github.com/noxdafox/delocate/internal/issue"
	"github.com/noxdafox/delocate/pkg/delocate"
	"github.com/noxdafox/delocate/pkg/macho"
	"github.com/noxdafox/delocate/pkg/wheel"
)

// classifyDelocateError maps delocation failures to issue catalog IDs and
// returns a styled message for CLI rendering. It preserves actionable error details.
func classifyDelocateError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	issueID = issue.DelocationFailedId

	var (
		missingErr *delocate.MissingLibraryError
		clashErr   *delocate.BasenameClashError
		libDirErr  *delocate.LibDirExistsError
		spaceErr   *macho.NoSpaceError
		distErr    *wheel.DistInfoError
	)

	switch {
	case errors.Is(err, os.ErrNotExist):
		issueID = issue.PathNotFoundId
	case errors.Is(err, zip.ErrFormat):
		issueID = issue.WheelInvalidId
	case errors.As(err, &missingErr):
		issueID = issue.LibraryNotFoundId
	case errors.As(err, &clashErr):
		issueID = issue.BasenameClashId
	case errors.As(err, &libDirErr):
		issueID = issue.LibDirExistsId
	case errors.As(err, &spaceErr):
		issueID = issue.HeaderSpaceExhaustedId
	case errors.As(err, &distErr):
		issueID = issue.RecordUpdateFailedId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), displayError(err, verbose))
}

// wrapDelocateError turns a delocation failure into the error shape the CLI
// layer renders: a ServiceError referencing the issue catalog, carried by an
// ExitError for the exit status. The styled message is attached only in
// verbose runs; the plain message is already printed by the command frame.
func wrapDelocateError(err error) error {
	issueID, styled := classifyDelocateError(err, verbose)
	if !verbose {
		styled = ""
	}
	return &ExitError{Code: 1, Err: newServiceError(err, issueID, styled)}
}
