// SPDX-License-Identifier: MPL-2.0

package fsys

import (
	"path/filepath"
	"strings"
)

type (
	// Directory is a directory found during a walk.
	Directory struct {
		// Path is the directory path as understood by the backing afero.Fs.
		Path string
		// Name is the base name of the directory.
		Name string
		// Origin is the root directory the walk started from.
		Origin string
	}

	// File is a regular file found during a walk.
	File struct {
		// Path is the file path as understood by the backing afero.Fs.
		Path string
		// Name is the base name of the file, extension included.
		Name string
		// Extension is the last extension without the leading dot ("lua" for "a.server.lua").
		Extension string
		// Origin is the root directory the walk started from.
		Origin string
	}
)

// NewDirectory returns the Directory for path inside the walk rooted at origin.
// An empty origin makes the directory its own origin.
func NewDirectory(path, origin string) Directory {
	path = filepath.Clean(path)
	if origin == "" {
		origin = path
	}
	return Directory{
		Path:   path,
		Name:   filepath.Base(path),
		Origin: filepath.Clean(origin),
	}
}

// NewFile returns the File for path inside the walk rooted at origin.
func NewFile(path, origin string) File {
	path = filepath.Clean(path)
	name := filepath.Base(path)
	return File{
		Path:      path,
		Name:      name,
		Extension: strings.TrimPrefix(filepath.Ext(name), "."),
		Origin:    filepath.Clean(origin),
	}
}

// Rel returns the slash-separated path of the directory relative to its origin.
// The origin itself is ".".
func (d Directory) Rel() string {
	return relative(d.Origin, d.Path)
}

// Join returns the path of name inside the directory.
func (d Directory) Join(name string) string {
	return filepath.Join(d.Path, name)
}

// Rel returns the slash-separated path of the file relative to its origin.
func (f File) Rel() string {
	return relative(f.Origin, f.Path)
}

// HasSuffix reports whether the file name ends with suffix (e.g. ".server.lua").
func (f File) HasSuffix(suffix string) bool {
	return strings.HasSuffix(f.Name, suffix)
}

func relative(origin, path string) string {
	rel, err := filepath.Rel(origin, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
