// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"guidekit-cli/internal/config"
	"guidekit-cli/pkg/samplefile"
)

const (
	// DialectGroovy is the Groovy DSL script dialect.
	DialectGroovy Dialect = "groovy"
	// DialectKotlin is the Kotlin DSL script dialect.
	DialectKotlin Dialect = "kotlin"

	// CommonDirName is the directory shared by all dialects of a sample.
	CommonDirName = "common"
)

// Dialect identifies a build script dialect variant of a sample.
type Dialect string

// String returns the string representation of the Dialect.
func (d Dialect) String() string { return string(d) }

// Dialects lists all known dialects in stable order.
func Dialects() []Dialect {
	return []Dialect{DialectGroovy, DialectKotlin}
}

// SampleNotFoundError is returned when a requested sample does not exist.
type SampleNotFoundError struct {
	Name       string
	SamplesDir string
}

// Error implements the error interface.
func (e *SampleNotFoundError) Error() string {
	return fmt.Sprintf("sample %q not found under %s", e.Name, e.SamplesDir)
}

// Sample represents a discovered sample directory.
type Sample struct {
	// Name is the sample directory base name.
	Name string
	// Path is the absolute path to the sample directory.
	Path string
	// Dialects are the dialect variants present, in stable order.
	Dialects []Dialect
	// HasCommon reports whether the sample has a common/ directory.
	HasCommon bool
	// Meta is the parsed sample.cue metadata, or defaults when absent.
	Meta *samplefile.Sample
}

// DialectDir returns the absolute path of a dialect directory.
func (s *Sample) DialectDir(d Dialect) string {
	return filepath.Join(s.Path, string(d))
}

// CommonDir returns the absolute path of the shared common/ directory.
// The directory may not exist; callers tolerate missing roots.
func (s *Sample) CommonDir() string {
	return filepath.Join(s.Path, CommonDirName)
}

// HasDialect reports whether the sample provides the given dialect.
func (s *Sample) HasDialect(d Dialect) bool {
	for _, have := range s.Dialects {
		if have == d {
			return true
		}
	}
	return false
}

// ArchiveFileName returns the file name of the packaged archive for a dialect.
func (s *Sample) ArchiveFileName(d Dialect) string {
	return fmt.Sprintf("%s-%s.zip", s.Name, d)
}

// Discovery handles finding samples.
type Discovery struct {
	cfg *config.Config
}

// New creates a new Discovery instance
func New(cfg *config.Config) *Discovery {
	return &Discovery{cfg: cfg}
}

// DiscoverAll finds all samples under the configured samples directory.
// Samples are sorted by name. A missing samples directory yields an empty
// result rather than an error so that listing works in fresh projects.
func (d *Discovery) DiscoverAll() (*Result, error) {
	res := &Result{}

	absDir, err := filepath.Abs(string(d.cfg.SamplesDir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve samples directory: %w", err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return nil, fmt.Errorf("failed to read samples directory %s: %w", absDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		samplePath := filepath.Join(absDir, entry.Name())
		sample, diags := d.inspect(entry.Name(), samplePath)
		res.Diagnostics = append(res.Diagnostics, diags...)
		if sample != nil {
			res.Samples = append(res.Samples, sample)
		}
	}

	sort.Slice(res.Samples, func(i, j int) bool {
		return res.Samples[i].Name < res.Samples[j].Name
	})

	return res, nil
}

// Get finds a specific sample by name.
func (d *Discovery) Get(name string) (*Sample, error) {
	res, err := d.DiscoverAll()
	if err != nil {
		return nil, err
	}

	for _, s := range res.Samples {
		if s.Name == name {
			return s, nil
		}
	}

	return nil, &SampleNotFoundError{Name: name, SamplesDir: string(d.cfg.SamplesDir)}
}

// inspect classifies a candidate directory. A directory without any dialect
// subdirectory is not a sample; it produces a warning diagnostic instead of
// an error so that stray directories don't break packaging runs.
func (d *Discovery) inspect(name, path string) (*Sample, []Diagnostic) {
	var diags []Diagnostic

	sample := &Sample{Name: name, Path: path}
	for _, dialect := range Dialects() {
		if dirExists(filepath.Join(path, string(dialect))) {
			sample.Dialects = append(sample.Dialects, dialect)
		}
	}
	sample.HasCommon = dirExists(filepath.Join(path, CommonDirName))

	if len(sample.Dialects) == 0 {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     "no_dialect_dirs",
			Message:  fmt.Sprintf("directory %q has no groovy/ or kotlin/ subdirectory; skipped", name),
			Path:     path,
		})
		return nil, diags
	}

	meta, err := samplefile.Load(path)
	if err != nil {
		// Malformed metadata degrades to defaults rather than failing the run.
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     "metadata_parse_skipped",
			Message:  fmt.Sprintf("ignoring malformed sample metadata for %q", name),
			Path:     filepath.Join(path, samplefile.FileName),
			Cause:    err,
		})
		meta = &samplefile.Sample{Title: name}
	}
	sample.Meta = meta

	return sample, diags
}

// ReadmeName resolves the readme base name for a sample: the per-sample
// metadata override wins over the tool-level configuration.
func (d *Discovery) ReadmeName(s *Sample) string {
	if s.Meta != nil && s.Meta.Readme != "" {
		return s.Meta.Readme
	}
	return string(d.cfg.ReadmeName)
}

// Excludes resolves the exclusion patterns for a sample: per-sample metadata
// patterns are appended to the tool-level patterns.
func (d *Discovery) Excludes(s *Sample) []string {
	patterns := d.cfg.ExcludeStrings()
	if s.Meta != nil {
		patterns = append(patterns, s.Meta.Excludes...)
	}
	return patterns
}

// dirExists checks if a path exists and is a directory
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
