// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestReadmeNameIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value ReadmeName
		want  bool
	}{
		{"plain name", "README.adoc", true},
		{"markdown name", "README.md", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"contains slash", "docs/README.adoc", false},
		{"contains backslash", `docs\README.adoc`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidReadmeName) {
				t.Errorf("error %v is not ErrInvalidReadmeName", errs[0])
			}
		})
	}
}

func TestGlobPatternIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value GlobPattern
		want  bool
	}{
		{"doublestar", "**/build/**", true},
		{"extension", "**/*.iml", true},
		{"empty", "", false},
		{"unclosed class", "[unclosed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidGlobPattern) {
				t.Errorf("error %v is not ErrInvalidGlobPattern", errs[0])
			}
		})
	}
}

func TestCommandLineIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value CommandLine
		want  bool
	}{
		{"empty means not configured", "", true},
		{"real command", "asciidoctor docs/index.adoc", true},
		{"whitespace only", "  \t ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, _ := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
		})
	}
}

func TestPublishConfigCollectsFieldErrors(t *testing.T) {
	cfg := PublishConfig{Command: "   ", Branch: ""}

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected invalid publish config")
	}
	if !errors.Is(errs[0], ErrInvalidPublishConfig) {
		t.Errorf("error %v is not ErrInvalidPublishConfig", errs[0])
	}

	var pubErr *InvalidPublishConfigError
	if !errors.As(errs[0], &pubErr) {
		t.Fatalf("error %v is not *InvalidPublishConfigError", errs[0])
	}
	if len(pubErr.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %d, want 2", len(pubErr.FieldErrors))
	}
}

func TestConfigIsValidAggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SamplesDir = ""
	cfg.Excludes = append(cfg.Excludes, "[bad")

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected invalid config")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("error %v is not ErrInvalidConfig", errs[0])
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error %v is not *InvalidConfigError", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %d, want 2", len(cfgErr.FieldErrors))
	}
}

func TestExcludeStrings(t *testing.T) {
	cfg := Config{Excludes: []GlobPattern{"**/build/**", "**/*.iml"}}
	got := cfg.ExcludeStrings()
	if len(got) != 2 || got[0] != "**/build/**" || got[1] != "**/*.iml" {
		t.Errorf("ExcludeStrings() = %v", got)
	}
}
