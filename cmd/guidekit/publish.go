// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"guidekit-cli/internal/extrun"
	"guidekit-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newPublishCommand creates the `guidekit publish` command.
func newPublishCommand(app *App) *cobra.Command {
	var force bool

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the rendered site (CI only)",
		Long: `Publish the rendered site using the configured publish command.

Publishing is gated: it only proceeds on a CI build of the configured
publish branch, so local runs and feature-branch builds cannot push a
site by accident. Use --force to bypass the gate deliberately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			env := extrun.DetectEnvironment()
			if err := extrun.GatePublish(env, string(cfg.Publish.Branch), force); err != nil {
				return publishGateError(err, string(cfg.Publish.Branch))
			}
			if force {
				app.Logger.Warn("publish gate bypassed with --force")
			}

			return runStep(cmd.Context(), app, cfg, "publish", cfg.Publish.Command)
		},
	}

	publishCmd.Flags().BoolVar(&force, "force", false, "bypass the CI/branch publish gate")

	return publishCmd
}

// publishGateError turns a gate rejection into an actionable error.
func publishGateError(err error, branch string) error {
	builder := issue.NewErrorContext().
		WithOperation("publish rendered site").
		Wrap(err)

	if errors.Is(err, extrun.ErrNotCI) {
		return builder.
			WithSuggestion("Publishing normally runs from the CI pipeline").
			WithSuggestion("Use --force to publish from a local machine deliberately").
			BuildError()
	}

	var mismatch *extrun.BranchMismatchError
	if errors.As(err, &mismatch) {
		return builder.
			WithSuggestion(fmt.Sprintf("Merge to %s to trigger publishing", branch)).
			WithSuggestion("Change publish.branch in configuration if this branch should publish").
			BuildError()
	}

	return builder.BuildError()
}
