// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"guidekit-cli/internal/config"
	"guidekit-cli/internal/watch"
)

// newRenderCommand creates the `guidekit render` command.
func newRenderCommand(app *App) *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the configured guide renderer",
		Long: `Run the configured guide renderer.

The render.command from configuration is executed in an embedded shell
with GUIDEKIT_SAMPLES_DIR, GUIDEKIT_OUTPUT_DIR, and GUIDEKIT_SITE_DIR
set. The renderer itself (asciidoctor, hugo, mkdocs, ...) is an
external tool; guidekit only orchestrates it.

With --watch, guidekit keeps running and re-renders whenever the guide
sources change. The output and site directories are excluded from
watching so a render never triggers itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if watchMode {
				return renderWatch(cmd.Context(), app, cfg)
			}
			return runStep(cmd.Context(), app, cfg, "render", cfg.Render.Command)
		},
	}

	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-render on source changes")

	return cmd
}

// renderWatch runs an initial render, then re-renders on every debounced
// change to the guide sources until the context is cancelled.
func renderWatch(ctx context.Context, app *App, cfg *config.Config) error {
	// A failed initial render is reported but does not stop the watch;
	// the author is likely mid-edit and the next save retries.
	if err := runStep(ctx, app, cfg, "render", cfg.Render.Command); err != nil {
		app.Logger.Error("initial render failed", "err", err)
	}

	w, err := watch.New(watch.Config{
		Ignore: []string{
			string(cfg.OutputDir) + "/**",
			string(cfg.SiteDir) + "/**",
		},
		Stderr: app.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			app.Logger.Info("sources changed, re-rendering", "files", len(changed))
			return runStep(ctx, app, cfg, "render", cfg.Render.Command)
		},
	})
	if err != nil {
		return err
	}

	app.Logger.Info("watching for changes, press Ctrl+C to stop")
	return w.Run(ctx)
}
