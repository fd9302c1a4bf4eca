// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user input against embedded CUE schemas.
//
// The flow is always the same: compile the schema, unify a user document
// with one of its definitions, validate the result, decode it into a Go
// value. Unify exposes the validated cue.Value for callers that decode
// into something other than a struct; Decode does both steps in one call:
//
//	//go:embed config_schema.cue
//	var schema string
//
//	cfg, err := cueutil.Decode[Config](schema, data, "#Config",
//	    cueutil.WithFilename("config.cue"))
//
// Validation failures are rewritten into file-and-path prefixed messages
// ("config.cue: ui.verbose: expected bool") suitable for terminal output.
package cueutil
