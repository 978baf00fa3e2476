// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

// newCheckLinksCommand creates the `guidekit check-links` command.
func newCheckLinksCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check-links",
		Short: "Run the configured link checker against the rendered site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			return runStep(cmd.Context(), app, cfg, "check-links", cfg.CheckLinks.Command)
		},
	}
}
