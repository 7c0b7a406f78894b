// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/treesync/treesync/internal/config"
	"github.com/treesync/treesync/internal/reconcile"
	"github.com/treesync/treesync/internal/scope"
	"github.com/treesync/treesync/internal/transform"
	"github.com/treesync/treesync/pkg/fsys"
	"github.com/treesync/treesync/pkg/instance"
)

// Environment global names bound for every script.
const (
	GlobalScript = "script"
	GlobalPath   = "_PATH"
	GlobalRoot   = "_ROOT"
	GlobalScope  = "_SCOPE"
)

type (
	// Option configures a Project.
	Option func(*Project)

	// Project is a directory that can be reconciled repeatedly.
	Project struct {
		root     fsys.Directory
		fs       *fsys.AferoFilesystem
		registry *scope.Registry
		kinds    *instance.Registry
		cfg      *config.Config
		logger   *slog.Logger
	}

	// Build is the result of one reconciliation of a project.
	Build struct {
		Scope scope.ID
		Root  *instance.Node

		project *Project
	}
)

// WithFs reads the project from fs instead of the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(p *Project) {
		p.fs = fsys.New(fs)
	}
}

// WithRegistry uses r instead of the process-wide scope registry.
func WithRegistry(r *scope.Registry) Option {
	return func(p *Project) {
		p.registry = r
	}
}

// WithKinds uses kinds as the node factory instead of the built-in kinds.
func WithKinds(kinds *instance.Registry) Option {
	return func(p *Project) {
		p.kinds = kinds
	}
}

// WithConfig applies cfg, currently its ignore patterns.
func WithConfig(cfg *config.Config) Option {
	return func(p *Project) {
		p.cfg = cfg
	}
}

// WithLogger sets the logger passed down to reconciliation.
func WithLogger(l *slog.Logger) Option {
	return func(p *Project) {
		if l != nil {
			p.logger = l
		}
	}
}

// Open returns the project rooted at path, which must be a directory.
// Relative paths are resolved against the working directory.
func Open(path string, opts ...Option) (*Project, error) {
	p := &Project{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fs == nil {
		p.fs = fsys.OS()
	}
	if p.registry == nil {
		p.registry = scope.Global()
	}
	if p.kinds == nil {
		p.kinds = instance.DefaultRegistry()
	}
	if p.cfg == nil {
		p.cfg = config.DefaultConfig()
	}

	// "." and ".." have no usable base name; the root node is named after
	// the directory itself.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	root, err := p.fs.StatDirectory(abs)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	p.root = root
	return p, nil
}

// Root returns the project directory.
func (p *Project) Root() fsys.Directory { return p.root }

// Kinds returns the node factory used by the project.
func (p *Project) Kinds() *instance.Registry { return p.kinds }

// Registry returns the scope registry used by the project.
func (p *Project) Registry() *scope.Registry { return p.registry }

// Build allocates a new scope and reconciles the project into it. The scope
// id is consumed even when reconciliation fails.
func (p *Project) Build() (*Build, error) {
	files := transform.New(p.fs, p.kinds, transform.WithLogger(p.logger))
	r, err := reconcile.New(p.fs, files, p.kinds,
		reconcile.WithLogger(p.logger),
		reconcile.WithIgnore(p.cfg.IgnoreGlobs()...),
	)
	if err != nil {
		return nil, err
	}

	id := p.registry.Allocate()
	p.logger.Debug("reconciling project", "root", p.root.Path, "scope", id)

	node, err := r.Reconcile(p.root, id)
	if err != nil {
		return nil, err
	}
	return &Build{Scope: id, Root: node, project: p}, nil
}

// Scripts returns the script nodes of the build in depth-first order.
func (b *Build) Scripts() []*instance.Node {
	var scripts []*instance.Node
	instance.Walk(b.Root, func(n *instance.Node, _ int) bool {
		if instance.IsScript(n) {
			scripts = append(scripts, n)
		}
		return true
	})
	return scripts
}

// Key returns the environment key of a script node in this build.
func (b *Build) Key(n *instance.Node) scope.EnvironmentKey {
	return scope.EnvironmentKey{Scope: b.Scope, Path: fsys.NewFile(n.Source(), b.project.root.Path).Rel()}
}

// Environment returns the virtual environment of a script node, binding it
// on first use.
func (b *Build) Environment(n *instance.Node) (*scope.VirtualEnvironment, error) {
	if !instance.IsScript(n) {
		return nil, fmt.Errorf("%s %q is not a script", n.Kind(), n.Name())
	}

	key := b.Key(n)
	env, _ := b.project.registry.Bind(key, func() *scope.VirtualEnvironment {
		return &scope.VirtualEnvironment{
			Script: n,
			Path:   n.Source(),
			Root:   b.project.root.Path,
			Globals: map[string]any{
				GlobalScript: n,
				GlobalPath:   key.Path,
				GlobalRoot:   b.project.root.Path,
				GlobalScope:  uint64(b.Scope),
			},
		}
	})
	return env, nil
}

// Prepare binds an environment for every script of the build.
func (b *Build) Prepare() ([]*scope.VirtualEnvironment, error) {
	scripts := b.Scripts()
	envs := make([]*scope.VirtualEnvironment, 0, len(scripts))
	for _, n := range scripts {
		env, err := b.Environment(n)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return envs, nil
}

// Release removes every environment bound for this build's scope.
func (b *Build) Release() int {
	return b.project.registry.ReleaseScope(b.Scope)
}
