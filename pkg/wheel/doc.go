// SPDX-License-Identifier: MPL-2.0

// Package wheel handles the packaging side of delocation: expanding and
// repacking wheel archives with file modes and timestamps intact, locating
// the installable package directories inside an expanded wheel, and
// regenerating the RECORD manifest after the tree has been modified.
package wheel
