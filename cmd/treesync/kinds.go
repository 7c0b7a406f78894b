// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treesync/treesync/pkg/instance"
)

func newKindsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List node kinds and their properties",
		Long: `List every registered node kind with its typed properties.

Abstract kinds cannot be named in init.meta.json; they only contribute
inherited properties. Property values in metadata files must have exactly
the listed type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listKinds(app)
			return nil
		},
	}
}

func listKinds(app *App) {
	for _, spec := range app.Kinds.Kinds() {
		header := CmdStyle.Render(spec.Name.String())
		if spec.Base != "" {
			header += SubtitleStyle.Render(" : " + spec.Base.String())
		}
		if spec.Abstract {
			header += " " + WarningStyle.Render("(abstract)")
		}
		fmt.Fprintln(app.stdout, header)

		for _, prop := range app.Kinds.Properties(spec.Name) {
			fmt.Fprintf(app.stdout, "  %-12s %-7s %s\n",
				prop.Name,
				prop.Type.FriendlyName(),
				VerboseStyle.Render("= "+instance.FormatValue(prop.Default)),
			)
		}
	}
}
