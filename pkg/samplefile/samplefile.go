// SPDX-License-Identifier: MPL-2.0

package samplefile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"guidekit-cli/pkg/cueutil"
)

// FileName is the metadata file looked up at a sample root.
const FileName = "sample.cue"

//go:embed sample_schema.cue
var sampleSchema string

// Sample is the decoded sample.cue metadata.
type Sample struct {
	// Title is the display title shown in listings and rendered guides.
	Title string `json:"title"`

	// Description is an optional one-paragraph description.
	Description string `json:"description,omitempty"`

	// Readme overrides the tool-level readme base name for this sample.
	Readme string `json:"readme,omitempty"`

	// Excludes are extra exclusion patterns merged with tool-level excludes.
	Excludes []string `json:"excludes,omitempty"`

	// Tags are free-form labels used for grouping in listings.
	Tags []string `json:"tags,omitempty"`

	// FilePath is where the metadata was loaded from. Empty for defaults.
	FilePath string `json:"-"`
}

// Parse reads and parses sample metadata from the given path.
func Parse(path string) (*Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample metadata at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses sample metadata content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Sample, error) {
	result, err := cueutil.ParseAndDecodeString[Sample](
		sampleSchema,
		data,
		"#Sample",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(),
	)
	if err != nil {
		return nil, err
	}

	s := result.Value
	s.FilePath = path
	return s, nil
}

// Load looks for a sample.cue in dir. A missing file is not an error: the
// returned Sample has the directory base name as its title and no overrides.
func Load(dir string) (*Sample, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Sample{Title: filepath.Base(dir)}, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return Parse(path)
}
