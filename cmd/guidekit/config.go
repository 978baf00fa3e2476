// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"guidekit-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `guidekit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage guidekit configuration",
		Long: `Manage guidekit configuration.

Configuration is read from a project-local guidekit.cue first, then:
  - Linux: ~/.config/guidekit/config.cue
  - macOS: ~/Library/Application Support/guidekit/config.cue
  - Windows: %APPDATA%\guidekit\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			app.printf("%s", config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, path, err := config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: app.configFilePath})
	if err != nil {
		return err
	}

	keyStyle := SampleStyle
	valueStyle := SuccessStyle

	app.printf("%s\n\n", TitleStyle.Render("Current Configuration"))

	if path != "" {
		app.printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		app.printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	app.printf("\n")

	app.printf("%s: %s\n", keyStyle.Render("samples_dir"), valueStyle.Render(string(cfg.SamplesDir)))
	app.printf("%s: %s\n", keyStyle.Render("output_dir"), valueStyle.Render(string(cfg.OutputDir)))
	app.printf("%s: %s\n", keyStyle.Render("site_dir"), valueStyle.Render(string(cfg.SiteDir)))
	app.printf("%s: %s\n", keyStyle.Render("readme_name"), valueStyle.Render(string(cfg.ReadmeName)))

	app.printf("\n%s:\n", keyStyle.Render("excludes"))
	if len(cfg.Excludes) == 0 {
		app.printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, pattern := range cfg.Excludes {
			app.printf("  - %s\n", valueStyle.Render(string(pattern)))
		}
	}

	app.printf("\n%s:\n", keyStyle.Render("steps"))
	app.printf("  render: %s\n", renderCommandValue(cfg.Render.Command))
	app.printf("  check_links: %s\n", renderCommandValue(cfg.CheckLinks.Command))
	app.printf("  publish: %s\n", renderCommandValue(cfg.Publish.Command))
	app.printf("  publish.branch: %s\n", valueStyle.Render(string(cfg.Publish.Branch)))

	app.printf("\n%s:\n", keyStyle.Render("ui"))
	app.printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

// renderCommandValue styles a step command, marking unconfigured steps.
func renderCommandValue(command config.CommandLine) string {
	if !command.IsConfigured() {
		return SubtitleStyle.Render("(not configured)")
	}
	return SuccessStyle.Render(string(command))
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	app.printf("%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath(ctx context.Context, app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	_, path, err := config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: app.configFilePath})
	if err != nil {
		return err
	}

	app.printf("Config directory: %s\n", cfgDir)
	if path != "" {
		app.printf("Config file in use: %s\n", path)
	} else {
		app.printf("Config file in use: %s\n", SubtitleStyle.Render("(none, using defaults)"))
	}

	return nil
}
