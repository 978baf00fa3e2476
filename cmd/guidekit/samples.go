// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"guidekit-cli/internal/config"
	"guidekit-cli/internal/discovery"
	"guidekit-cli/internal/issue"
	"guidekit-cli/pkg/archive"

	"github.com/spf13/cobra"
)

// newSamplesCommand creates the `guidekit samples` command tree.
func newSamplesCommand(app *App) *cobra.Command {
	samplesCmd := &cobra.Command{
		Use:   "samples",
		Short: "List and package guide samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var packaged bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			if packaged {
				return listPackagedArchives(cmd.Context(), app)
			}
			return listSamples(cmd.Context(), app)
		},
	}
	listCmd.Flags().BoolVar(&packaged, "packaged", false,
		"list the archives recorded in the output manifest instead of the sources")
	samplesCmd.AddCommand(listCmd)

	var outputDir string
	packageCmd := &cobra.Command{
		Use:   "package [sample...]",
		Short: "Package samples into distributable zip archives",
		Long: `Package samples into distributable zip archives.

Each sample produces one archive per dialect (groovy, kotlin) that is
present. Archives contain the dialect directory merged with common/,
with the configured readme renamed to README and doc tag markers
stripped from Gradle build scripts. A dialect with no content of its
own is skipped rather than producing an empty archive.

A TOML manifest describing the produced archives is written next to
them for CI consumption.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return packageSamples(cmd.Context(), app, args, outputDir)
		},
	}
	packageCmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"output directory for archives (overrides configuration)")
	samplesCmd.AddCommand(packageCmd)

	return samplesCmd
}

func listSamples(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	res, err := discovery.New(cfg).DiscoverAll()
	if err != nil {
		return err
	}
	app.renderDiagnostics(res.Diagnostics)

	if len(res.Samples) == 0 {
		app.printf("%s\n", SubtitleStyle.Render(fmt.Sprintf("No samples found under %s", cfg.SamplesDir)))
		return nil
	}

	app.printf("%s\n\n", TitleStyle.Render("Samples"))
	for _, s := range res.Samples {
		dialects := make([]string, len(s.Dialects))
		for i, d := range s.Dialects {
			dialects[i] = string(d)
		}
		app.printf("  %s  %s %s\n",
			SampleStyle.Render(s.Name),
			s.Meta.Title,
			SubtitleStyle.Render("("+strings.Join(dialects, ", ")+")"))
		if s.Meta.Description != "" {
			app.printf("      %s\n", SubtitleStyle.Render(s.Meta.Description))
		}
	}
	return nil
}

// listPackagedArchives reports what a previous packaging run produced, read
// back from the manifest rather than re-scanning the sources.
func listPackagedArchives(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(string(cfg.OutputDir), archive.ManifestFileName)
	m, err := archive.ReadManifest(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return issue.NewErrorContext().
				WithOperation("list packaged archives").
				WithResource(manifestPath).
				WithSuggestion("Run 'guidekit samples package' to produce archives first").
				Wrap(err).
				BuildError()
		}
		return err
	}

	if len(m.Archives) == 0 {
		app.printf("%s\n", SubtitleStyle.Render("No archives recorded in "+manifestPath))
		return nil
	}

	app.printf("%s\n\n", TitleStyle.Render("Packaged archives"))
	for _, entry := range m.Archives {
		app.printf("  %s  %s\n",
			SampleStyle.Render(entry.Path),
			SubtitleStyle.Render(fmt.Sprintf("%d bytes, %d entries, sha256 %.12s", entry.Bytes, entry.Entries, entry.SHA256)))
	}
	return nil
}

func packageSamples(ctx context.Context, app *App, names []string, outputOverride string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	disc := discovery.New(cfg)
	res, err := disc.DiscoverAll()
	if err != nil {
		return err
	}
	app.renderDiagnostics(res.Diagnostics)

	samples, err := selectSamples(res.Samples, names, cfg)
	if err != nil {
		return err
	}

	outputDir := string(cfg.OutputDir)
	if outputOverride != "" {
		outputDir = outputOverride
	}

	manifest := archive.NewManifest()
	packaged, skipped := 0, 0

	for _, s := range samples {
		for _, dialect := range s.Dialects {
			entry, wasSkipped, err := packageDialect(app, disc, s, dialect, outputDir)
			if err != nil {
				return err
			}
			if wasSkipped {
				skipped++
				continue
			}
			manifest.Add(*entry)
			packaged++
		}
	}

	// When every dialect was skipped no archive created the output dir yet.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	manifestPath := filepath.Join(outputDir, archive.ManifestFileName)
	if err := manifest.Write(manifestPath); err != nil {
		return issue.NewErrorContext().
			WithOperation("write archive manifest").
			WithResource(manifestPath).
			WithSuggestion("Check that the output directory is writable").
			Wrap(err).
			BuildError()
	}

	app.printf("%s Packaged %d archive(s) into %s",
		SuccessStyle.Render("✓"), packaged, outputDir)
	if skipped > 0 {
		app.printf(" %s", SubtitleStyle.Render(fmt.Sprintf("(%d dialect(s) skipped, no content)", skipped)))
	}
	app.printf("\n")
	return nil
}

// packageDialect archives one sample/dialect combination and returns its
// manifest entry, or wasSkipped=true when the dialect had no main content.
func packageDialect(app *App, disc *discovery.Discovery, s *discovery.Sample, dialect discovery.Dialect, outputDir string) (*archive.ManifestEntry, bool, error) {
	archiveName := s.ArchiveFileName(dialect)
	outputPath := filepath.Join(outputDir, archiveName)

	req := archive.Request{
		Source:     []string{s.CommonDir(), s.DialectDir(dialect)},
		MainSource: []string{s.DialectDir(dialect)},
		Excludes:   disc.Excludes(s),
		ReadmeName: disc.ReadmeName(s),
		OutputPath: outputPath,
	}

	result, err := archive.Archive(req)
	if err != nil {
		return nil, false, issue.NewErrorContext().
			WithOperation("package sample").
			WithResource(fmt.Sprintf("%s (%s)", s.Name, dialect)).
			WithSuggestion("Check that the sample directory is readable").
			WithSuggestion("Verify exclude patterns in configuration and sample.cue").
			Wrap(err).
			BuildError()
	}

	if result.Skipped {
		app.Logger.Debug("skipped dialect with no content", "sample", s.Name, "dialect", dialect)
		return nil, true, nil
	}

	for _, warning := range result.Warnings {
		app.Logger.Warn(warning, "sample", s.Name, "dialect", dialect)
	}

	info, err := os.Stat(result.OutputPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat archive %s: %w", result.OutputPath, err)
	}
	digest, err := archive.FileDigest(result.OutputPath)
	if err != nil {
		return nil, false, err
	}

	app.Logger.Info("packaged sample",
		"sample", s.Name, "dialect", dialect,
		"archive", archiveName, "entries", result.Entries)

	return &archive.ManifestEntry{
		Sample:  s.Name,
		Dialect: string(dialect),
		Path:    archiveName,
		Bytes:   info.Size(),
		SHA256:  digest,
		Entries: int64(result.Entries),
	}, false, nil
}

// selectSamples filters discovered samples down to the requested names.
// With no names, all discovered samples are selected.
func selectSamples(all []*discovery.Sample, names []string, cfg *config.Config) ([]*discovery.Sample, error) {
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]*discovery.Sample, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}

	selected := make([]*discovery.Sample, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, issue.NewErrorContext().
				WithOperation("select sample").
				WithResource(name).
				WithSuggestion("Run 'guidekit samples list' to see available samples").
				WithSuggestion(fmt.Sprintf("Check for a %s/%s directory with a groovy/ or kotlin/ subdirectory", cfg.SamplesDir, name)).
				Wrap(&discovery.SampleNotFoundError{Name: name, SamplesDir: string(cfg.SamplesDir)}).
				BuildError()
		}
		selected = append(selected, s)
	}
	return selected, nil
}
