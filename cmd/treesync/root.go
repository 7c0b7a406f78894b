// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treesync",
		Short: "Turn a project directory into an instance tree",
		Long: TitleStyle.Render("treesync") + SubtitleStyle.Render(" - Turn a project directory into an instance tree") + `

treesync reads a project directory and builds the tree of nodes it
describes: directories become folders, Lua files become scripts and
init.meta.json files give a directory an explicit kind and properties.

` + SubtitleStyle.Render("Examples:") + `
  treesync build                   Build the current directory
  treesync build src --properties  Show node properties
  treesync build --prepare         Bind an environment for every script
  treesync kinds                   List the kinds nodes can have
  treesync config show             Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is ./treesync.cue, then $HOME/.config/treesync/config.cue)")

	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newKindsCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's status. It is called by
// main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
