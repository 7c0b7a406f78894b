// SPDX-License-Identifier: MPL-2.0

package reconcile

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/treesync/treesync/internal/scope"
	"github.com/treesync/treesync/pkg/fsys"
	"github.com/treesync/treesync/pkg/instance"
	"github.com/treesync/treesync/pkg/metadata"
)

type (
	// FileTransformer turns one file into a node, or into nothing.
	// A non-empty nameOverride replaces the name derived from the file.
	FileTransformer interface {
		Transform(file fsys.File, id scope.ID, nameOverride string) (*instance.Node, error)
	}

	// Option configures a Reconciler.
	Option func(*Reconciler)

	// Reconciler builds node trees from directories. It reads but never
	// writes, and keeps no state between calls.
	Reconciler struct {
		fs      fsys.Filesystem
		files   FileTransformer
		factory instance.Factory
		logger  *slog.Logger
		ignores []string
	}
)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIgnore adds doublestar glob patterns matched against each entry's
// slash-separated path relative to the walk origin. Matching entries are
// skipped before they are transformed or descended into.
func WithIgnore(patterns ...string) Option {
	return func(r *Reconciler) {
		r.ignores = append(r.ignores, patterns...)
	}
}

// New returns a Reconciler. It fails only when an ignore pattern is malformed.
func New(fs fsys.Filesystem, files FileTransformer, factory instance.Factory, opts ...Option) (*Reconciler, error) {
	r := &Reconciler{
		fs:      fs,
		files:   files,
		factory: factory,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := ValidateIgnore(r.ignores); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateIgnore checks that every pattern is a valid doublestar glob.
func ValidateIgnore(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("%w %q", ErrInvalidIgnore, pat)
		}
	}
	return nil
}

// Reconcile builds the node tree for dir within scope id. Errors keep their
// type and are reachable with errors.Is and errors.As; no node is returned.
func (r *Reconciler) Reconcile(dir fsys.Directory, id scope.ID) (*instance.Node, error) {
	node, err := r.reconcile(dir, id)
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", dir.Path, err)
	}
	return node, nil
}

func (r *Reconciler) reconcile(dir fsys.Directory, id scope.ID) (*instance.Node, error) {
	node, err := r.directoryNode(dir, id)
	if err != nil {
		return nil, err
	}

	paths, err := r.fs.List(dir)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		name := filepath.Base(path)
		if IsReserved(name) {
			continue
		}

		isFile, err := r.fs.IsFile(path)
		if err != nil {
			return nil, err
		}

		var child *instance.Node
		if isFile {
			file := fsys.NewFile(path, dir.Origin)
			if r.isIgnored(file.Rel()) {
				r.logger.Debug("ignored entry", "path", path)
				continue
			}
			child, err = r.files.Transform(file, id, "")
			if err != nil {
				return nil, err
			}
			if child == nil {
				r.logger.Debug("file produced no node", "path", path)
				continue
			}
		} else {
			sub := fsys.NewDirectory(path, dir.Origin)
			if r.isIgnored(sub.Rel()) {
				r.logger.Debug("ignored entry", "path", path)
				continue
			}
			child, err = r.reconcile(sub, id)
			if err != nil {
				return nil, err
			}
		}

		if err := child.SetParent(node); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// directoryNode resolves the node that stands for dir itself.
func (r *Reconciler) directoryNode(dir fsys.Directory, id scope.ID) (*instance.Node, error) {
	initFile, found, err := r.fs.LocateFirst(dir, InitCandidates()...)
	if err != nil {
		return nil, err
	}

	switch {
	case found && IsScriptInit(initFile.Name):
		r.logger.Debug("directory is a script", "dir", dir.Path, "init", initFile.Name)
		node, err := r.files.Transform(initFile, id, dir.Name)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, fmt.Errorf("%w: %s", ErrEmptyInit, initFile.Path)
		}
		return node, nil

	case found:
		r.logger.Debug("directory has metadata", "dir", dir.Path, "init", initFile.Name)
		text, err := r.fs.ReadText(initFile.Path)
		if err != nil {
			return nil, err
		}
		md, err := metadata.Decode([]byte(text), initFile.Path)
		if err != nil {
			return nil, err
		}
		node, err := metadata.Instantiate(r.factory, md, dir.Name)
		if err != nil {
			return nil, err
		}
		node.SetSource(initFile.Path)
		return node, nil

	default:
		node, err := r.factory.Create(instance.KindFolder, instance.String(instance.PropName, dir.Name))
		if err != nil {
			return nil, err
		}
		node.SetSource(dir.Path)
		return node, nil
	}
}

// isIgnored reports whether rel matches any ignore pattern.
func (r *Reconciler) isIgnored(rel string) bool {
	for _, pat := range r.ignores {
		if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
			return true
		}
	}
	return false
}
