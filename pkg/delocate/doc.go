// SPDX-License-Identifier: MPL-2.0

// Package delocate discovers the shared libraries a tree of Mach-O
// binaries depends on, vendors the external ones into a library
// directory, and rewrites install names so the tree loads the vendored
// copies through @loader_path references. Vendoring is transitive: the
// dependencies of vendored libraries are vendored too, until the closure
// is complete. It operates on plain directory trees and on wheel
// archives.
package delocate
