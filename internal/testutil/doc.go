// SPDX-License-Identifier: MPL-2.0

// Package testutil provides small helpers shared by tests across packages.
// The machotest subpackage assembles Mach-O fixture files.
package testutil
