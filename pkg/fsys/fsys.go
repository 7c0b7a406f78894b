// SPDX-License-Identifier: MPL-2.0

package fsys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

type (
	// Filesystem is the set of blocking filesystem primitives a walk needs.
	Filesystem interface {
		// List returns the paths of all direct entries of dir in enumeration order.
		List(dir Directory) ([]string, error)
		// ReadText returns the full contents of the file at path.
		ReadText(path string) (string, error)
		// IsFile reports whether path is a regular file (false for directories).
		IsFile(path string) (bool, error)
		// LocateFirst returns the first of names that exists as a file directly
		// inside dir. The boolean is false when none of them is present.
		LocateFirst(dir Directory, names ...string) (File, bool, error)
	}

	// AferoFilesystem implements Filesystem on top of an afero.Fs.
	AferoFilesystem struct {
		fs afero.Fs
	}
)

// New returns a Filesystem reading from fs. A nil fs reads the operating system filesystem.
func New(fs afero.Fs) *AferoFilesystem {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &AferoFilesystem{fs: fs}
}

// OS returns a Filesystem reading the operating system filesystem.
func OS() *AferoFilesystem {
	return New(afero.NewOsFs())
}

// Fs returns the backing afero.Fs.
func (a *AferoFilesystem) Fs() afero.Fs {
	return a.fs
}

// List returns the paths of all direct entries of dir.
func (a *AferoFilesystem) List(dir Directory) ([]string, error) {
	infos, err := afero.ReadDir(a.fs, dir.Path)
	if err != nil {
		return nil, &FilesystemError{Op: "list", Path: dir.Path, Cause: err}
	}

	paths := make([]string, 0, len(infos))
	for _, info := range infos {
		paths = append(paths, filepath.Join(dir.Path, info.Name()))
	}
	return paths, nil
}

// ReadText returns the contents of the file at path.
func (a *AferoFilesystem) ReadText(path string) (string, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return "", &FilesystemError{Op: "read", Path: path, Cause: err}
	}
	return string(data), nil
}

// IsFile reports whether path is a regular file.
func (a *AferoFilesystem) IsFile(path string) (bool, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return false, &FilesystemError{Op: "stat", Path: path, Cause: err}
	}
	return info.Mode().IsRegular(), nil
}

// LocateFirst returns the first of names present as a file inside dir.
// Candidates that exist but are directories are not matches.
func (a *AferoFilesystem) LocateFirst(dir Directory, names ...string) (File, bool, error) {
	for _, name := range names {
		path := dir.Join(name)
		info, err := a.fs.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
				continue
			}
			return File{}, false, &FilesystemError{Op: "stat", Path: path, Cause: err}
		}
		if info.Mode().IsRegular() {
			return NewFile(path, dir.Origin), true, nil
		}
	}
	return File{}, false, nil
}

// StatDirectory returns the Directory for path after checking it is one.
// The returned directory is its own origin.
func (a *AferoFilesystem) StatDirectory(path string) (Directory, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return Directory{}, &FilesystemError{Op: "stat", Path: path, Cause: err}
	}
	if !info.IsDir() {
		return Directory{}, &FilesystemError{Op: "stat", Path: path, Cause: ErrNotDirectory}
	}
	return NewDirectory(path, ""), nil
}

// ErrNotDirectory is the cause reported when a directory was expected.
var ErrNotDirectory = errors.New("not a directory")
