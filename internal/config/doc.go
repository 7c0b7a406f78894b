// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// A project may carry its own treesync.cue at its root. Otherwise the user
// configuration is read from ~/.config/treesync/config.cue (XDG on Linux,
// ~/Library/Application Support/treesync/config.cue on macOS,
// %APPDATA%\treesync\config.cue on Windows). Files are validated against the
// embedded config_schema.cue, and TREESYNC_* environment variables override
// file values.
package config
