// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treesync/treesync/internal/issue"
	"github.com/treesync/treesync/internal/logging"
	"github.com/treesync/treesync/internal/project"
	"github.com/treesync/treesync/internal/scope"
	"github.com/treesync/treesync/pkg/fsys"
	"github.com/treesync/treesync/pkg/instance"
)

type (
	buildFlags struct {
		properties bool
		json       bool
		prepare    bool
	}

	nodeJSON struct {
		Kind       string         `json:"kind"`
		Name       string         `json:"name"`
		Path       string         `json:"path,omitempty"`
		Properties map[string]any `json:"properties,omitempty"`
		Children   []nodeJSON     `json:"children,omitempty"`
	}

	environmentJSON struct {
		ID     string `json:"id"`
		Key    string `json:"key"`
		Script string `json:"script"`
		Path   string `json:"path"`
	}

	buildJSON struct {
		Scope        uint64            `json:"scope"`
		Root         nodeJSON          `json:"root"`
		Environments []environmentJSON `json:"environments,omitempty"`
	}
)

func newBuildCommand(app *App) *cobra.Command {
	var flags buildFlags

	buildCmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Build the instance tree of a project directory",
		Long: `Build the instance tree of a project directory (default ".").

Every directory becomes a Folder unless it holds an init script, which
turns the directory into that script, or an init.meta.json, which gives it
an explicit kind and properties. The build is all or nothing: any error
aborts it and no tree is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runBuild(cmd, app, dir, flags)
		},
	}

	buildCmd.Flags().BoolVarP(&flags.properties, "properties", "p", false, "show node properties")
	buildCmd.Flags().BoolVar(&flags.json, "json", false, "print the tree as JSON")
	buildCmd.Flags().BoolVar(&flags.prepare, "prepare", false, "bind an environment for every script")

	return buildCmd
}

func runBuild(cmd *cobra.Command, app *App, dir string, flags buildFlags) error {
	cfg := app.loadConfig(cmd.Context(), dir)
	if cfg.UI.Properties {
		flags.properties = true
	}

	logOpts, err := logging.Parse(string(cfg.Log.Level), string(cfg.Log.Format))
	if err != nil {
		return err
	}
	logger := logging.New(app.stderr, logOpts)

	proj, err := project.Open(dir,
		project.WithRegistry(app.Scopes),
		project.WithKinds(app.Kinds),
		project.WithConfig(cfg),
		project.WithLogger(logger),
	)
	if err != nil {
		ectx := issue.NewErrorContext().
			WithOperation("open project").
			WithResource(dir).
			Wrap(err)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fsys.ErrNotDirectory) {
			ectx.WithSuggestion("Check that the path exists and is a directory").
				WithIssue(issue.DirectoryNotFoundId)
		}
		return buildFailure(cmd, app, ectx.BuildError())
	}

	b, err := proj.Build()
	if err != nil {
		return buildFailure(cmd, app, issue.NewErrorContext().
			WithOperation("build project").
			WithResource(dir).
			Wrap(err).
			BuildError())
	}

	var envs []*scope.VirtualEnvironment
	if flags.prepare {
		envs, err = b.Prepare()
		if err != nil {
			return buildFailure(cmd, app, err)
		}
	}

	if flags.json {
		return writeBuildJSON(app, b, envs)
	}

	fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Scope"), SuccessStyle.Render(b.Scope.String()))
	fmt.Fprintln(app.stdout, renderTree(b.Root, flags.properties))
	fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%d node(s), %d script(s)", instance.Count(b.Root), len(b.Scripts()))))

	if flags.prepare {
		fmt.Fprintln(app.stdout)
		fmt.Fprintln(app.stdout, TitleStyle.Render("Environments"))
		for _, env := range envs {
			fmt.Fprintf(app.stdout, "  %s %s\n", CmdStyle.Render(env.Key.String()), VerboseStyle.Render(env.ID.String()))
		}
	}
	return nil
}

// buildFailure renders err and returns the exit error for a failed build.
func buildFailure(cmd *cobra.Command, app *App, err error) error {
	renderFailure(app.stderr, err, app.verbose)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}

func writeBuildJSON(app *App, b *project.Build, envs []*scope.VirtualEnvironment) error {
	out := buildJSON{
		Scope: uint64(b.Scope),
		Root:  toNodeJSON(b.Root),
	}
	for _, env := range envs {
		out.Environments = append(out.Environments, environmentJSON{
			ID:     env.ID.String(),
			Key:    env.Key.String(),
			Script: env.Script.Name(),
			Path:   filepath.ToSlash(env.Key.Path),
		})
	}

	enc := json.NewEncoder(app.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toNodeJSON(n *instance.Node) nodeJSON {
	out := nodeJSON{
		Kind:   n.Kind().String(),
		Name:   n.Name(),
		Path:   n.Source(),
	}
	for _, p := range n.Properties() {
		if p.Name == instance.PropName {
			continue
		}
		if out.Properties == nil {
			out.Properties = make(map[string]any)
		}
		out.Properties[p.Name] = p.GoValue()
	}
	for _, child := range n.Children() {
		out.Children = append(out.Children, toNodeJSON(child))
	}
	return out
}
