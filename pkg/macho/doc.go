// SPDX-License-Identifier: MPL-2.0

// Package macho reads and rewrites shared-library install names in Mach-O
// binaries without shelling out to platform tooling.
//
// The package understands thin (32- and 64-bit, either byte order) and fat
// (multi-architecture) files. Read operations return the dependency install
// names, the install id, and run-path entries recorded in the load commands.
// Write operations rewrite a recorded name in place, growing or shrinking the
// load command area as needed within the padding that precedes the first
// section's data; rewrites never move section data, so they are safe for fat
// files whose per-architecture offsets must not change.
package macho
