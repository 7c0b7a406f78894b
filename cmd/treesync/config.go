// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treesync/treesync/internal/config"
)

// newConfigCommand creates the `treesync config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage treesync configuration",
		Long: `Manage treesync configuration.

A project may keep its settings in treesync.cue at its root. Otherwise
the user configuration is read from:
  - Linux: ~/.config/treesync/config.cue
  - macOS: ~/Library/Application Support/treesync/config.cue
  - Windows: %APPDATA%\treesync\config.cue

TREESYNC_* environment variables override file values, for example
TREESYNC_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var projectDir string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{
				ConfigFilePath: app.cfgFile,
				ProjectDir:     projectDir,
			})
			if err != nil {
				return buildFailure(cmd, app, err)
			}
			showConfig(app, cfg)
			return nil
		},
	}
	showCmd.Flags().StringVar(&projectDir, "dir", ".", "project directory searched for treesync.cue")
	cfgCmd.AddCommand(showCmd)

	var initProject bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, initProject)
		},
	}
	initCmd.Flags().BoolVar(&initProject, "project", false, "write ./treesync.cue instead of the user config file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.cfgFile, ProjectDir: "."})
			if err != nil {
				return buildFailure(cmd, app, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ignore"))
	if len(cfg.Ignore) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, p := range cfg.Ignore {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(p.String()))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(cfg.Log.Format.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  properties: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Properties)))
}

func initConfig(app *App, project bool) error {
	path := config.ProjectFileName
	if !project {
		p, err := config.ConfigFilePath()
		if err != nil {
			return err
		}
		path = p
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Config file already exists:"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created config file:"), path)
	return nil
}
