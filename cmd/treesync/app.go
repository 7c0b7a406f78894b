// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/treesync/treesync/internal/config"
	"github.com/treesync/treesync/internal/scope"
	"github.com/treesync/treesync/pkg/instance"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration, kinds and scopes through it.
	App struct {
		Config ConfigProvider
		Kinds  *instance.Registry
		Scopes *scope.Registry
		stdout io.Writer
		stderr io.Writer

		verbose bool
		cfgFile string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Kinds  *instance.Registry
		Scopes *scope.Registry
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Kinds == nil {
		deps.Kinds = instance.DefaultRegistry()
	}
	if deps.Scopes == nil {
		deps.Scopes = scope.Global()
	}

	return &App{
		Config: deps.Config,
		Kinds:  deps.Kinds,
		Scopes: deps.Scopes,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads configuration for a project directory. A broken config
// file is reported as a warning and the defaults are used instead.
func (a *App) loadConfig(ctx context.Context, projectDir string) *config.Config {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.cfgFile,
		ProjectDir:     projectDir,
	})
	if err != nil {
		renderWarning(a.stderr, err, a.verbose)
		return config.DefaultConfig()
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	return cfg
}
