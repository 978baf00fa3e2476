// SPDX-License-Identifier: MPL-2.0

package samplefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
		check   func(t *testing.T, s *Sample)
	}{
		{
			name: "full metadata",
			data: `title: "Building Java Projects"
description: "Compile and test a Java library."
readme: "README.md"
excludes: ["**/out/**"]
tags: ["java", "jvm"]`,
			check: func(t *testing.T, s *Sample) {
				if s.Title != "Building Java Projects" {
					t.Errorf("Title = %q", s.Title)
				}
				if s.Readme != "README.md" {
					t.Errorf("Readme = %q", s.Readme)
				}
				if len(s.Excludes) != 1 || s.Excludes[0] != "**/out/**" {
					t.Errorf("Excludes = %v", s.Excludes)
				}
				if len(s.Tags) != 2 {
					t.Errorf("Tags = %v", s.Tags)
				}
			},
		},
		{
			name: "title only",
			data: `title: "Minimal"`,
			check: func(t *testing.T, s *Sample) {
				if s.Title != "Minimal" {
					t.Errorf("Title = %q", s.Title)
				}
				if s.Description != "" || s.Readme != "" {
					t.Errorf("unexpected overrides: %+v", s)
				}
			},
		},
		{
			name:    "missing title rejected",
			data:    `description: "No title"`,
			wantErr: "title",
		},
		{
			name:    "empty exclude pattern rejected",
			data:    "title: \"X\"\nexcludes: [\"\"]",
			wantErr: "excludes",
		},
		{
			name:    "wrong type rejected",
			data:    `title: 5`,
			wantErr: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseBytes([]byte(tt.data), "sample.cue")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %v does not mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes: %v", err)
			}
			if s.FilePath != "sample.cue" {
				t.Errorf("FilePath = %q", s.FilePath)
			}
			tt.check(t, s)
		})
	}
}

func TestLoadFallsBackToDirectoryName(t *testing.T) {
	dir := t.TempDir()
	sampleDir := filepath.Join(dir, "building-java")
	if err := os.MkdirAll(sampleDir, 0755); err != nil {
		t.Fatal(err)
	}

	s, err := Load(sampleDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Title != "building-java" {
		t.Errorf("Title = %q, want directory name", s.Title)
	}
	if s.FilePath != "" {
		t.Errorf("FilePath = %q, want empty for defaults", s.FilePath)
	}
}

func TestLoadReadsMetadataFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(`title: "From File"`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Title != "From File" {
		t.Errorf("Title = %q", s.Title)
	}
}

func TestLoadSurfacesInvalidMetadata(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(`title: 42`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for invalid metadata")
	}
}
