// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestVersion identifies the manifest format written by this tool.
	ManifestVersion = "1"

	// ManifestFileName is the manifest file written next to the archives.
	ManifestFileName = "samples.manifest.toml"
)

type (
	// Manifest records the archives produced by one packaging run, giving CI
	// a machine-readable inventory of the distribution artifacts.
	Manifest struct {
		// Version is the manifest format version.
		Version string `toml:"version"`

		// Archives lists one record per archive actually written. Skipped
		// sample/dialect combinations do not appear.
		Archives []ManifestEntry `toml:"archives,omitempty"`
	}

	// ManifestEntry describes a single produced archive.
	ManifestEntry struct {
		// Sample is the sample name the archive was built from.
		Sample string `toml:"sample"`

		// Dialect is the build-script dialect variant (e.g. "groovy").
		Dialect string `toml:"dialect"`

		// Path is the archive location relative to the output directory.
		Path string `toml:"path"`

		// Bytes is the archive file size.
		Bytes int64 `toml:"bytes"`

		// SHA256 is the hex digest of the archive file.
		SHA256 string `toml:"sha256"`

		// Entries is the number of zip entries in the archive.
		Entries int64 `toml:"entries"`
	}
)

// NewManifest returns an empty manifest at the current format version.
func NewManifest() *Manifest {
	return &Manifest{Version: ManifestVersion}
}

// Add appends a record for a produced archive.
func (m *Manifest) Add(e ManifestEntry) {
	m.Archives = append(m.Archives, e)
}

// Write serializes the manifest as TOML to path.
func (m *Manifest) Write(path string) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest previously written by Write.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// FileDigest returns the hex-encoded SHA-256 digest of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
