// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"guidekit-cli/internal/discovery"
	"guidekit-cli/internal/issue"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// newPreviewCommand creates the `guidekit preview` command.
func newPreviewCommand(app *App) *cobra.Command {
	var width int

	previewCmd := &cobra.Command{
		Use:   "preview <sample>",
		Short: "Render a sample's readme in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return previewSample(cmd.Context(), app, args[0], width)
		},
	}

	previewCmd.Flags().IntVarP(&width, "width", "w", 100, "word-wrap width")

	return previewCmd
}

func previewSample(ctx context.Context, app *App, name string, width int) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	disc := discovery.New(cfg)
	s, err := disc.Get(name)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("preview sample").
			WithResource(name).
			WithSuggestion("Run 'guidekit samples list' to see available samples").
			Wrap(err).
			BuildError()
	}

	readmeName := disc.ReadmeName(s)
	readmePath, err := findReadme(s, readmeName)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("preview sample").
			WithResource(name).
			WithSuggestion(fmt.Sprintf("Add a %s file to the sample", readmeName)).
			WithSuggestion("Set readme in sample.cue if the sample uses a different name").
			Wrap(err).
			BuildError()
	}

	content, err := os.ReadFile(readmePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", readmePath, err)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	rendered, err := renderer.Render(string(content))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", readmePath, err)
	}

	app.printf("%s\n%s", TitleStyle.Render(s.Meta.Title), rendered)
	return nil
}

// findReadme locates the first file with the configured readme base name in
// the sample tree, walking in lexical order so the result is deterministic.
func findReadme(s *discovery.Sample, readmeName string) (string, error) {
	var found string
	err := filepath.WalkDir(s.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == readmeName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no %s found in %s", readmeName, s.Path)
	}
	return found, nil
}
