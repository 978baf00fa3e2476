// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrInvalidReadmeName is returned when a ReadmeName value is empty or contains a path separator.
	ErrInvalidReadmeName = errors.New("invalid readme name")
	// ErrInvalidGlobPattern is returned when an exclude pattern is not valid doublestar syntax.
	ErrInvalidGlobPattern = errors.New("invalid glob pattern")
	// ErrInvalidCommandLine is returned when a CommandLine value is whitespace-only.
	ErrInvalidCommandLine = errors.New("invalid command line")
	// ErrInvalidBranchName is returned when a BranchName value is whitespace-only.
	ErrInvalidBranchName = errors.New("invalid branch name")
	// ErrInvalidDirPath is returned when a DirPath value is empty or whitespace-only.
	ErrInvalidDirPath = errors.New("invalid directory path")
	// ErrInvalidHookConfig is the sentinel error wrapped by InvalidHookConfigError.
	ErrInvalidHookConfig = errors.New("invalid hook config")
	// ErrInvalidPublishConfig is the sentinel error wrapped by InvalidPublishConfigError.
	ErrInvalidPublishConfig = errors.New("invalid publish config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ReadmeName is the base file name (no directory component) of the readme
	// that gets renamed to the canonical README entry inside sample archives.
	ReadmeName string

	// InvalidReadmeNameError is returned when a ReadmeName value is empty or
	// contains a path separator. It wraps ErrInvalidReadmeName for errors.Is().
	InvalidReadmeNameError struct {
		Value ReadmeName
	}

	// GlobPattern is a doublestar exclusion pattern matched against
	// slash-separated paths relative to a sample root.
	GlobPattern string

	// InvalidGlobPatternError is returned when a GlobPattern does not parse
	// as doublestar syntax. It wraps ErrInvalidGlobPattern for errors.Is().
	InvalidGlobPatternError struct {
		Value GlobPattern
	}

	// CommandLine is a shell command line run by the embedded interpreter.
	// The zero value ("") is valid and means "step not configured".
	CommandLine string

	// InvalidCommandLineError is returned when a CommandLine value is
	// non-empty but whitespace-only.
	InvalidCommandLineError struct {
		Value CommandLine
	}

	// BranchName is the branch that publishing is restricted to on CI.
	// A valid name must be non-empty and not whitespace-only.
	BranchName string

	// InvalidBranchNameError is returned when a BranchName value is empty
	// or whitespace-only.
	InvalidBranchNameError struct {
		Value BranchName
	}

	// DirPath is a filesystem path to a directory, relative to the project
	// root or absolute. A valid path must be non-empty and not whitespace-only.
	DirPath string

	// InvalidDirPathError is returned when a DirPath value is empty or
	// whitespace-only.
	InvalidDirPathError struct {
		Value DirPath
	}

	// InvalidHookConfigError is returned when a HookConfig has invalid fields.
	// It wraps ErrInvalidHookConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidHookConfigError struct {
		FieldErrors []error
	}

	// InvalidPublishConfigError is returned when a PublishConfig has invalid fields.
	// It wraps ErrInvalidPublishConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidPublishConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SamplesDir is where samples are discovered.
		SamplesDir DirPath `json:"samples_dir" mapstructure:"samples_dir"`
		// OutputDir is where sample archives and the manifest are written.
		OutputDir DirPath `json:"output_dir" mapstructure:"output_dir"`
		// SiteDir is where the rendered guide site is written.
		SiteDir DirPath `json:"site_dir" mapstructure:"site_dir"`
		// ReadmeName is the readme base name renamed to README inside archives.
		ReadmeName ReadmeName `json:"readme_name" mapstructure:"readme_name"`
		// Excludes are exclusion patterns applied when walking sample trees.
		Excludes []GlobPattern `json:"excludes" mapstructure:"excludes"`
		// Render configures the external guide renderer.
		Render HookConfig `json:"render" mapstructure:"render"`
		// CheckLinks configures the external link checker.
		CheckLinks HookConfig `json:"check_links" mapstructure:"check_links"`
		// Publish configures the external publisher and its CI gate.
		Publish PublishConfig `json:"publish" mapstructure:"publish"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// HookConfig configures an external collaborator invoked through the
	// embedded shell interpreter.
	HookConfig struct {
		// Command is the shell command line to run. Empty means not configured.
		Command CommandLine `json:"command" mapstructure:"command"`
	}

	// PublishConfig configures publishing of the rendered site.
	PublishConfig struct {
		// Command is the shell command line to run. Empty means not configured.
		Command CommandLine `json:"command" mapstructure:"command"`
		// Branch restricts publishing to this branch when running on CI.
		Branch BranchName `json:"branch" mapstructure:"branch"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the ReadmeName.
func (n ReadmeName) String() string { return string(n) }

// IsValid returns whether the ReadmeName is valid.
// A valid name is non-empty, not whitespace-only, and a bare base name
// (no slashes), since it is matched against file base names during packaging.
func (n ReadmeName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" || strings.ContainsAny(string(n), `/\`) {
		return false, []error{&InvalidReadmeNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidReadmeNameError.
func (e *InvalidReadmeNameError) Error() string {
	return fmt.Sprintf("invalid readme name %q: must be a non-empty base file name", e.Value)
}

// Unwrap returns ErrInvalidReadmeName for errors.Is() compatibility.
func (e *InvalidReadmeNameError) Unwrap() error { return ErrInvalidReadmeName }

// String returns the string representation of the GlobPattern.
func (p GlobPattern) String() string { return string(p) }

// IsValid returns whether the GlobPattern is valid doublestar syntax.
func (p GlobPattern) IsValid() (bool, []error) {
	if string(p) == "" || !doublestar.ValidatePattern(string(p)) {
		return false, []error{&InvalidGlobPatternError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidGlobPatternError.
func (e *InvalidGlobPatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: must be non-empty doublestar syntax", e.Value)
}

// Unwrap returns ErrInvalidGlobPattern for errors.Is() compatibility.
func (e *InvalidGlobPatternError) Unwrap() error { return ErrInvalidGlobPattern }

// String returns the string representation of the CommandLine.
func (c CommandLine) String() string { return string(c) }

// IsConfigured reports whether a command line has been set.
func (c CommandLine) IsConfigured() bool { return c != "" }

// IsValid returns whether the CommandLine is valid.
// The zero value ("") is valid (means "step not configured").
// Non-zero values must not be whitespace-only.
func (c CommandLine) IsValid() (bool, []error) {
	if c == "" {
		return true, nil
	}
	if strings.TrimSpace(string(c)) == "" {
		return false, []error{&InvalidCommandLineError{Value: c}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCommandLineError.
func (e *InvalidCommandLineError) Error() string {
	return fmt.Sprintf("invalid command line %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCommandLine for errors.Is() compatibility.
func (e *InvalidCommandLineError) Unwrap() error { return ErrInvalidCommandLine }

// String returns the string representation of the BranchName.
func (b BranchName) String() string { return string(b) }

// IsValid returns whether the BranchName is valid.
// A valid name must be non-empty and not whitespace-only.
func (b BranchName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(b)) == "" {
		return false, []error{&InvalidBranchNameError{Value: b}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBranchNameError.
func (e *InvalidBranchNameError) Error() string {
	return fmt.Sprintf("invalid branch name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidBranchName for errors.Is() compatibility.
func (e *InvalidBranchNameError) Unwrap() error { return ErrInvalidBranchName }

// String returns the string representation of the DirPath.
func (p DirPath) String() string { return string(p) }

// IsValid returns whether the DirPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p DirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDirPathError.
func (e *InvalidDirPathError) Error() string {
	return fmt.Sprintf("invalid directory path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidDirPath for errors.Is() compatibility.
func (e *InvalidDirPathError) Unwrap() error { return ErrInvalidDirPath }

// IsValid returns whether the HookConfig has valid fields.
// It delegates to Command.IsValid().
func (c HookConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHookConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHookConfigError.
func (e *InvalidHookConfigError) Error() string {
	return fmt.Sprintf("invalid hook config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHookConfig for errors.Is() compatibility.
func (e *InvalidHookConfigError) Unwrap() error { return ErrInvalidHookConfig }

// IsValid returns whether the PublishConfig has valid fields.
// It delegates to Command.IsValid() and Branch.IsValid().
func (c PublishConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Branch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPublishConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPublishConfigError.
func (e *InvalidPublishConfigError) Error() string {
	return fmt.Sprintf("invalid publish config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPublishConfig for errors.Is() compatibility.
func (e *InvalidPublishConfigError) Unwrap() error { return ErrInvalidPublishConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to the typed path and name fields, each exclude pattern,
// Render.IsValid(), CheckLinks.IsValid(), and Publish.IsValid().
// UI has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.SamplesDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.OutputDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.SiteDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ReadmeName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, pattern := range c.Excludes {
		if valid, fieldErrs := pattern.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Render.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.CheckLinks.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Publish.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// ExcludeStrings returns the exclusion patterns as plain strings.
func (c Config) ExcludeStrings() []string {
	out := make([]string, len(c.Excludes))
	for i, p := range c.Excludes {
		out[i] = string(p)
	}
	return out
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SamplesDir: "samples",
		OutputDir:  "build/samples",
		SiteDir:    "build/site",
		ReadmeName: "README.adoc",
		Excludes: []GlobPattern{
			"**/build/**",
			"**/.gradle/**",
			"**/gradle/wrapper/**",
			"**/.idea/**",
			"**/*.iml",
			"**/.DS_Store",
		},
		Render:     HookConfig{Command: ""},
		CheckLinks: HookConfig{Command: ""},
		Publish: PublishConfig{
			Command: "",
			Branch:  "master",
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}
