// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"guidekit-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
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

// NewRootCommand builds the guidekit command tree around an App.
func NewRootCommand(app *App) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "guidekit",
		Short: "Build tool for documentation guides with runnable samples",
		Long: TitleStyle.Render("guidekit") + SubtitleStyle.Render(" - Build tool for documentation guides") + `

guidekit packages the runnable samples of a documentation guide into
distributable zip archives, one per build-script dialect (Groovy and
Kotlin), and drives the external renderer, link checker, and publisher
through an embedded shell.

Samples live under the configured samples directory, one subdirectory
per sample, with optional shared content in common/ and optional
metadata in sample.cue.

` + SubtitleStyle.Render("Examples:") + `
  guidekit samples list        List discovered samples
  guidekit samples package     Package all samples into zip archives
  guidekit render              Run the configured guide renderer
  guidekit publish             Publish the rendered site (CI only)
  guidekit config show         Show current configuration`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				app.Logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configFilePath, "config", "",
		"config file (default is ./guidekit.cue, then the platform config dir)")

	rootCmd.AddCommand(newSamplesCommand(app))
	rootCmd.AddCommand(newRenderCommand(app))
	rootCmd.AddCommand(newCheckLinksCommand(app))
	rootCmd.AddCommand(newPublishCommand(app))
	rootCmd.AddCommand(newPreviewCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// Use fang.Execute for enhanced Cobra styling.
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		printSuggestions(err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.Code
			// A failed run must never exit 0; out-of-range codes collapse to 1.
			if code.Validate() != nil || code.IsSuccess() {
				code = 1
			}
			os.Exit(int(code))
		}
		os.Exit(1)
	}
}

// printSuggestions writes ActionableError suggestions to stderr. fang already
// renders the error message itself, so only the actionable extras are added.
func printSuggestions(err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || len(ae.Suggestions) == 0 {
		return
	}
	for _, suggestion := range ae.Suggestions {
		fmt.Fprintf(os.Stderr, "  • %s\n", suggestion)
	}
}
