// SPDX-License-Identifier: MPL-2.0

// Package issue carries the user-facing side of error reporting: a catalog
// of troubleshooting entries rendered as styled markdown after a failure,
// and ActionableError, an error type that pairs a cause with concrete hints.
package issue
