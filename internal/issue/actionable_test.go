// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "package sample"},
			expected: "failed to package sample",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Operation: "package sample",
				Resource:  "samples/building-java/groovy",
			},
			expected: "failed to package sample: samples/building-java/groovy",
		},
		{
			name: "operation, resource and cause",
			err: &ActionableError{
				Operation: "load sample metadata",
				Resource:  "sample.cue",
				Cause:     errors.New("no such file"),
			},
			expected: "failed to load sample metadata: sample.cue: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorContextBuilder(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewErrorContext().
		WithOperation("create archive").
		WithResource("dist/sample.zip").
		WithSuggestion("Check that the output directory is writable").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil for a complete context")
	}
	if !errors.Is(err, cause) {
		t.Error("built error does not wrap the cause")
	}
	formatted := err.Format(false)
	if !strings.Contains(formatted, "• Check that the output directory is writable") {
		t.Errorf("Format() missing suggestion bullet: %q", formatted)
	}
}

func TestErrorContextRequiresOperation(t *testing.T) {
	if err := NewErrorContext().WithResource("x").BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestFormatVerboseIncludesChain(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapWithContext(inner, "write archive entry", "sub/other.txt")

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("verbose Format() missing error chain: %q", verbose)
	}
	if !strings.Contains(verbose, "disk full") {
		t.Errorf("verbose Format() missing root cause: %q", verbose)
	}
}
