// SPDX-License-Identifier: MPL-2.0

// Package cmd holds the Cobra command tree behind the delocate binary:
// the wheel, path and listdeps operations plus configuration management,
// along with the styling and error classification they share.
package cmd
