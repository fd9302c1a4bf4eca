// SPDX-License-Identifier: MPL-2.0

// Package platform resolves per-OS filesystem conventions: the
// runtime.GOOS name constants and the user configuration directory
// lookup used for locating config files.
package platform
