// SPDX-License-Identifier: MPL-2.0

// Package config loads application configuration through Viper, using CUE
// as the on-disk format.
//
// The file lives at ~/.config/delocate/config.cue on Linux (or the XDG
// equivalent), ~/Library/Application Support/delocate/config.cue on macOS,
// and %APPDATA%\delocate\config.cue on Windows. It covers the vendored
// library directory name, the install-name prefixes excluded from
// vendoring, the file suffixes inspected for dependencies, and UI
// settings. Any key can be overridden through DELOCATE_* environment
// variables. Every load is validated against the embedded CUE schema
// (config_schema.cue) before use.
package config
