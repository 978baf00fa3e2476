// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"path/filepath"
	"testing"
)

func collect(t *testing.T, root string, patterns []string) []string {
	t.Helper()
	excl, err := newExclusions(patterns)
	if err != nil {
		t.Fatal(err)
	}
	var visited []string
	err = walkTree(root, excl, func(e treeEntry) error {
		rel := e.Rel
		if e.Dir {
			rel += "/"
		}
		visited = append(visited, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("walkTree: %v", err)
	}
	return visited
}

func TestWalkTreeVisitsDirectoriesBeforeContents(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":          "a",
		"sub/b.txt":      "b",
		"sub/deep/c.txt": "c",
	})

	got := collect(t, dir, nil)
	want := []string{"a.txt", "sub/", "sub/b.txt", "sub/deep/", "sub/deep/c.txt"}
	if len(got) != len(want) {
		t.Fatalf("visited = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited = %v, want %v", got, want)
		}
	}
}

func TestWalkTreeExclusions(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "no patterns keeps everything",
			patterns: nil,
			want:     []string{".gradle/", ".gradle/cache.bin", "build/", "build/libs/", "build/libs/app.jar", "build.gradle", "src/", "src/main.txt"},
		},
		{
			name:     "directory glob prunes the subtree and the directory itself",
			patterns: []string{"**/build/**"},
			want:     []string{".gradle/", ".gradle/cache.bin", "build.gradle", "src/", "src/main.txt"},
		},
		{
			name:     "dot directories excluded by name",
			patterns: []string{"**/.gradle/**", "**/build/**"},
			want:     []string{"build.gradle", "src/", "src/main.txt"},
		},
		{
			name:     "file pattern excludes only files",
			patterns: []string{"**/*.jar"},
			want:     []string{".gradle/", ".gradle/cache.bin", "build/", "build/libs/", "build.gradle", "src/", "src/main.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, map[string]string{
				"build.gradle":       "plugins { }",
				"src/main.txt":       "main",
				"build/libs/app.jar": "jar",
				".gradle/cache.bin":  "cache",
			})

			got := collect(t, dir, tt.patterns)
			if len(got) != len(tt.want) {
				t.Fatalf("visited = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("visited = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestWalkTreeToleratesMissingRoot(t *testing.T) {
	dir := t.TempDir()
	got := collect(t, filepath.Join(dir, "does-not-exist"), nil)
	if len(got) != 0 {
		t.Errorf("visited = %v, want none", got)
	}
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"build.gradle":   "plugins { }",
		"src/main.txt":   "main",
		"build/out.txt":  "generated",
		"build/more.txt": "generated",
	})

	excl, err := newExclusions([]string{"**/build/**"})
	if err != nil {
		t.Fatal(err)
	}
	n, err := countFiles([]string{dir, filepath.Join(dir, "missing")}, excl)
	if err != nil {
		t.Fatalf("countFiles: %v", err)
	}
	if n != 2 {
		t.Errorf("countFiles = %d, want 2", n)
	}
}
