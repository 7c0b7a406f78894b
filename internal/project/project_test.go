// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/treesync/treesync/internal/config"
	"github.com/treesync/treesync/internal/logging"
	"github.com/treesync/treesync/internal/scope"
	"github.com/treesync/treesync/internal/testutil"
	"github.com/treesync/treesync/pkg/fsys"
	"github.com/treesync/treesync/pkg/instance"
	"github.com/treesync/treesync/pkg/metadata"
)

const root = "/game"

var sample = testutil.Tree{
	"src/init.lua":          "return {}",
	"src/util.lua":          "return 1",
	"src/main.server.lua":   "print('hi')",
	"assets/init.meta.json": `{"kind": "Model"}`,
	"assets/readme.txt":     "hi",
	".git/HEAD":             "ref: refs/heads/main",
}

func open(t *testing.T, tree testutil.Tree, opts ...Option) (*Project, *scope.Registry) {
	t.Helper()
	reg := scope.NewRegistry()
	opts = append([]Option{
		WithFs(testutil.MemFs(t, root, tree)),
		WithRegistry(reg),
		WithLogger(logging.Discard()),
	}, opts...)
	p, err := Open(root, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return p, reg
}

func TestOpen(t *testing.T) {
	t.Parallel()

	memFs := testutil.MemFs(t, root, testutil.Tree{"a.lua": "return 1"})

	p, err := Open(root+"/", WithFs(memFs), WithRegistry(scope.NewRegistry()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if p.Root().Path != root || p.Root().Name != "game" {
		t.Errorf("Root() = %+v", p.Root())
	}
	if p.Kinds() == nil || !p.Kinds().Has(instance.KindFolder) {
		t.Errorf("Kinds() should default to the built-in kinds")
	}

	if _, err := Open(root+"/a.lua", WithFs(memFs)); !errors.Is(err, fsys.ErrNotDirectory) {
		t.Errorf("Open(file) error = %v, want ErrNotDirectory", err)
	}
	if _, err := Open("/missing", WithFs(memFs)); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want ErrNotExist", err)
	}
}

func TestOpen_RelativeRootIsNamedAfterDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "game")
	testutil.WriteTree(t, afero.NewOsFs(), dir, testutil.Tree{
		"src/init.lua": "return {}",
		"docs/":        "",
	})
	t.Chdir(filepath.Join(dir, "docs"))

	tests := []struct {
		path string
		want string
	}{
		{path: "..", want: "game"},
		{path: "../src/..", want: "game"},
		{path: ".", want: "docs"},
	}

	for _, tt := range tests {
		p, err := Open(tt.path, WithRegistry(scope.NewRegistry()), WithLogger(logging.Discard()))
		if err != nil {
			t.Fatalf("Open(%q) error = %v", tt.path, err)
		}
		b, err := p.Build()
		if err != nil {
			t.Fatalf("Build(%q) error = %v", tt.path, err)
		}
		if b.Root.Name() != tt.want || p.Root().Name != tt.want {
			t.Errorf("Open(%q): root node %q, root dir %q, want %q", tt.path, b.Root.Name(), p.Root().Name, tt.want)
		}
		if !filepath.IsAbs(p.Root().Path) {
			t.Errorf("Open(%q): Root().Path = %q, want an absolute path", tt.path, p.Root().Path)
		}
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	p, reg := open(t, sample)

	b, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if b.Scope != 0 || reg.CurrentScope() != 1 {
		t.Errorf("Scope = %d, next = %d", b.Scope, reg.CurrentScope())
	}
	if b.Root.Kind() != instance.KindFolder || b.Root.Name() != "game" {
		t.Errorf("root = %s %q", b.Root.Kind(), b.Root.Name())
	}
	if _, ok := b.Root.FindChild(".git"); ok {
		t.Errorf("default ignore patterns were not applied")
	}
	if reg.Len() != 0 {
		t.Errorf("Build() bound %d environments, want none before Prepare", reg.Len())
	}

	again, err := p.Build()
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	if again.Scope != 1 || !instance.Equal(b.Root, again.Root) {
		t.Errorf("second build: scope %d, equal trees %v", again.Scope, instance.Equal(b.Root, again.Root))
	}
}

func TestBuild_Config(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Ignore = []config.IgnorePattern{"assets"}
	p, _ := open(t, sample, WithConfig(cfg))

	b, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := b.Root.FindChild("assets"); ok {
		t.Errorf("assets was not ignored")
	}
	if _, ok := b.Root.FindChild(".git"); !ok {
		t.Errorf(".git should be kept when the defaults are replaced")
	}
}

func TestBuild_FailureConsumesScope(t *testing.T) {
	t.Parallel()

	p, reg := open(t, testutil.Tree{"a/init.meta.json": `{"kind": 1}`})

	b, err := p.Build()
	if !errors.Is(err, metadata.ErrSchema) || b != nil {
		t.Fatalf("Build() = %v, %v, want schema error", b, err)
	}
	if reg.CurrentScope() != 1 || reg.Len() != 0 {
		t.Errorf("after failure: next scope %d, %d environments", reg.CurrentScope(), reg.Len())
	}
}

func TestBuild_InvalidIgnore(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Ignore = []config.IgnorePattern{"a/[b"}
	p, reg := open(t, sample, WithConfig(cfg))

	if _, err := p.Build(); err == nil {
		t.Fatal("Build() should reject a malformed ignore pattern")
	}
	if reg.CurrentScope() != 0 {
		t.Errorf("a rejected configuration should not allocate a scope")
	}
}

func TestBuild_Environments(t *testing.T) {
	t.Parallel()

	p, reg := open(t, sample)
	b, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	scripts := b.Scripts()
	names := make([]string, len(scripts))
	for i, n := range scripts {
		names[i] = n.Name()
	}
	if len(scripts) != 3 {
		t.Fatalf("Scripts() = %v, want src, main and util", names)
	}

	src := scripts[0]
	env, err := b.Environment(src)
	if err != nil {
		t.Fatalf("Environment() error = %v", err)
	}
	if env.Key != (scope.EnvironmentKey{Scope: b.Scope, Path: "src/init.lua"}) {
		t.Errorf("Key = %v", env.Key)
	}
	if env.Script != src || env.Path != "/game/src/init.lua" || env.Root != root {
		t.Errorf("env = %+v", env)
	}
	if env.Globals[GlobalScript] != src || env.Globals[GlobalPath] != "src/init.lua" ||
		env.Globals[GlobalRoot] != root || env.Globals[GlobalScope] != uint64(0) {
		t.Errorf("Globals = %v", env.Globals)
	}

	same, err := b.Environment(src)
	if err != nil || same != env {
		t.Errorf("Environment() should return the bound environment")
	}

	assets, _ := b.Root.FindChild("assets")
	if _, err := b.Environment(assets); err == nil {
		t.Errorf("Environment(Model) should fail")
	}

	envs, err := b.Prepare()
	if err != nil || len(envs) != 3 || reg.Len() != 3 {
		t.Fatalf("Prepare() = %d envs, %v; registry holds %d", len(envs), err, reg.Len())
	}
	if envs[0] != env {
		t.Errorf("Prepare() rebound an existing environment")
	}

	next, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := next.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if reg.Len() != 6 {
		t.Errorf("registry holds %d environments, want 6 across two scopes", reg.Len())
	}

	if n := b.Release(); n != 3 {
		t.Errorf("Release() = %d, want 3", n)
	}
	if _, ok := reg.Environment(env.Key); ok {
		t.Errorf("released environment is still bound")
	}
	if reg.Len() != 3 {
		t.Errorf("Release() touched another scope: %d left", reg.Len())
	}
}
