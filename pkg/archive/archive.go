// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ReadmeEntryName is the canonical in-archive name the configured readme
// file is flattened to, regardless of its original nested path.
const ReadmeEntryName = "README"

// entryModeMask selects the mode bits preserved in zip entries: the
// permission bits plus setuid/setgid/sticky. Samples ship executable
// wrappers whose full captured mode must round-trip.
const entryModeMask = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// Configuration errors detected before traversal begins.
var (
	// ErrNoReadmeName is returned when the readme base name is empty.
	ErrNoReadmeName = errors.New("readme name must not be empty")
	// ErrNoOutputPath is returned when the output path is empty.
	ErrNoOutputPath = errors.New("output path must not be empty")
	// ErrNoSource is returned when no source root is configured.
	ErrNoSource = errors.New("at least one source root is required")
)

type (
	// Request describes a single sample packaging operation.
	Request struct {
		// Source are the directory roots whose filtered contents go into
		// the archive.
		Source []string

		// MainSource are the roots whose filtered contents decide whether
		// archiving proceeds at all. An empty selection is a deliberate
		// no-op success, not an error.
		MainSource []string

		// Excludes are doublestar glob patterns matched against
		// slash-separated relative paths; matches are left out of the
		// archive. A matched directory prunes its whole subtree.
		Excludes []string

		// ReadmeName is the base file name (case-sensitive) flattened to
		// the canonical README entry. Must not be empty.
		ReadmeName string

		// OutputPath is the destination zip file. Any pre-existing file is
		// deleted and recreated; there is no incremental behavior.
		OutputPath string
	}

	// Result reports the outcome of a packaging operation.
	Result struct {
		// OutputPath is the archive location, empty when Skipped.
		OutputPath string

		// Skipped is true when the main source selection was empty and no
		// archive was written.
		Skipped bool

		// Entries is the number of zip entries written (directories and
		// files).
		Entries int

		// Warnings collects non-fatal irregularities, such as two files
		// competing for the README entry.
		Warnings []string
	}
)

// Archive produces a zip archive of the filtered source trees described by
// req. All entries use DEFLATE compression, carry Unix permission bits in
// their external attributes, and use forward-slash separators with a
// trailing slash on directory entries.
//
// The operation is strictly sequential and one-shot: any I/O failure aborts
// it, the partially written output file is removed, and the wrapped cause is
// returned.
func Archive(req Request) (res Result, err error) {
	if req.ReadmeName == "" {
		return res, ErrNoReadmeName
	}
	if req.OutputPath == "" {
		return res, ErrNoOutputPath
	}
	if len(req.Source) == 0 {
		return res, ErrNoSource
	}

	excl, err := newExclusions(req.Excludes)
	if err != nil {
		return res, err
	}

	// Skip-when-empty: a sample with no main content for this dialect must
	// not produce an empty or meaningless archive.
	mainFiles, err := countFiles(req.MainSource, excl)
	if err != nil {
		return res, fmt.Errorf("failed to scan main sources: %w", err)
	}
	if mainFiles == 0 {
		res.Skipped = true
		return res, nil
	}

	if err := os.Remove(req.OutputPath); err != nil && !os.IsNotExist(err) {
		return res, fmt.Errorf("failed to remove stale archive: %w", err)
	}
	if dir := filepath.Dir(req.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return res, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	zipFile, err := os.Create(req.OutputPath)
	if err != nil {
		return res, fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			// Partial output is worthless to a build; remove it so a failed
			// step cannot leave a half-written archive behind.
			os.Remove(req.OutputPath)
		}
	}()

	zw := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := &writer{
		zw:         zw,
		readmeName: req.ReadmeName,
		seenDirs:   make(map[string]struct{}),
	}
	for _, root := range req.Source {
		if walkErr := walkTree(root, excl, w.visit); walkErr != nil {
			return res, fmt.Errorf("failed to pack sample: %w", walkErr)
		}
	}

	res.OutputPath = req.OutputPath
	res.Entries = w.entries
	res.Warnings = w.warnings
	return res, nil
}

// writer accumulates traversal state for one archive: the zip stream, the
// set of directory paths already emitted, and the readme flattening state.
// The seen-directories set lives only for the duration of a single Archive
// call.
type writer struct {
	zw         *zip.Writer
	readmeName string
	seenDirs   map[string]struct{}
	readmeFrom string
	entries    int
	warnings   []string
}

func (w *writer) visit(e treeEntry) error {
	if e.Dir {
		return w.writeDir(e)
	}
	return w.writeFile(e)
}

// writeDir emits a directory entry at most once per relative path, even when
// the same directory is reachable through multiple source roots.
func (w *writer) writeDir(e treeEntry) error {
	if _, dup := w.seenDirs[e.Rel]; dup {
		return nil
	}
	w.seenDirs[e.Rel] = struct{}{}

	hdr := &zip.FileHeader{
		Name:   e.Rel + "/",
		Method: zip.Deflate,
	}
	hdr.SetMode(fs.ModeDir | e.Mode&entryModeMask)
	if _, err := w.zw.CreateHeader(hdr); err != nil {
		return fmt.Errorf("failed to create directory entry %s: %w", hdr.Name, err)
	}
	w.entries++
	return nil
}

func (w *writer) writeFile(e treeEntry) error {
	base := path.Base(e.Rel)

	name := e.Rel
	if base == w.readmeName {
		name = ReadmeEntryName
		if w.readmeFrom != "" {
			// Last write wins per zip stream semantics; make the collision
			// visible instead of silently shadowing an entry.
			w.warnings = append(w.warnings, fmt.Sprintf(
				"multiple files named %s: %s overrides %s as the README entry",
				w.readmeName, e.Rel, w.readmeFrom))
		}
		w.readmeFrom = e.Rel
	}

	hdr := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	hdr.SetMode(e.Mode & entryModeMask)

	if isScriptFile(base) {
		raw, err := os.ReadFile(e.Abs)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", e.Abs, err)
		}
		filtered := filterDocTags(raw)
		hdr.UncompressedSize64 = uint64(len(filtered))
		dst, err := w.zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to create entry %s: %w", name, err)
		}
		if _, err := dst.Write(filtered); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", name, err)
		}
		w.entries++
		return nil
	}

	hdr.UncompressedSize64 = uint64(e.Size)
	dst, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}
	if err := copyFileTo(dst, e.Abs); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	w.entries++
	return nil
}

// copyFileTo streams a source file into the archive, guaranteeing the input
// handle is released on both success and failure.
func copyFileTo(dst io.Writer, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(dst, f)
	return err
}
