// SPDX-License-Identifier: MPL-2.0

// Package fsys is the filesystem view used while mirroring a directory tree.
//
// Entries are immutable value types (Directory, File) that remember the root
// the walk started from. All reads go through an afero.Fs so callers can swap
// the operating system filesystem for an in-memory one in tests.
package fsys
