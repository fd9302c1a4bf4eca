// SPDX-License-Identifier: MPL-2.0

// Package types defines small validated value types shared across the
// CLI and the delocation pipeline: process exit codes and filesystem
// path arguments. They carry semantic meaning without pulling in domain
// dependencies.
package types
