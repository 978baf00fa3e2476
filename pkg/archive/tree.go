// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type (
	// treeEntry describes one visited filesystem entry. Dispatch on Dir
	// instead of dynamic visitor types: the traversal hands every entry to a
	// single callback that branches on kind.
	treeEntry struct {
		// Rel is the slash-separated path relative to the walked root.
		Rel string
		// Abs is the absolute (or root-joined) filesystem path.
		Abs string
		// Mode holds the captured permission and type bits.
		Mode fs.FileMode
		// Size is the byte length; zero for directories.
		Size int64
		// Dir reports whether the entry is a directory.
		Dir bool
	}

	// exclusions is a compiled set of doublestar patterns matched against
	// slash-separated relative paths.
	exclusions struct {
		patterns []string
	}
)

// newExclusions validates each pattern eagerly so a malformed glob fails the
// whole operation before any traversal starts.
func newExclusions(patterns []string) (*exclusions, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &exclusions{patterns: patterns}, nil
}

// Match reports whether the relative path is excluded. Directories also
// match patterns of the form "prefix/**" by their prefix, so that a pattern
// like "**/build/**" prunes the build directory itself and not just its
// contents.
func (e *exclusions) Match(rel string, dir bool) bool {
	for _, p := range e.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if dir {
			if prefix, found := strings.CutSuffix(p, "/**"); found {
				if ok, _ := doublestar.Match(prefix, rel); ok {
					return true
				}
			}
		}
	}
	return false
}

// walkTree walks root depth-first in lexical order, visiting directories
// before the files they contain. Excluded directories prune their whole
// subtree. The root itself is not reported. Missing roots are tolerated:
// a sample may not provide every optional source directory.
func walkTree(root string, excl *exclusions, visit func(treeEntry) error) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat source root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source root %s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if excl.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		fi, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("failed to get file info for %s: %w", path, infoErr)
		}

		entry := treeEntry{
			Rel:  rel,
			Abs:  path,
			Mode: fi.Mode(),
			Dir:  d.IsDir(),
		}
		if !entry.Dir {
			entry.Size = fi.Size()
		}
		return visit(entry)
	})
}

// countFiles returns the number of non-directory entries the filtered roots
// would contribute. Used for the skip-when-empty decision on main sources.
func countFiles(roots []string, excl *exclusions) (int, error) {
	n := 0
	for _, root := range roots {
		err := walkTree(root, excl, func(e treeEntry) error {
			if !e.Dir {
				n++
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return n, nil
}
