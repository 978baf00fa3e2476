// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"testing"

	"guidekit-cli/internal/issue"
	"guidekit-cli/pkg/types"
)

func TestRunStepPropagatesExitCode(t *testing.T) {
	cfg := testConfig(t)
	app, _ := newTestApp(cfg)

	err := runStep(context.Background(), app, cfg, "check-links", "exit 4")
	if err == nil {
		t.Fatal("expected error")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v is not *ExitError", err)
	}
	if exitErr.Code != types.ExitCode(4) {
		t.Errorf("Code = %d, want 4", exitErr.Code)
	}
}

func TestRunStepUnconfigured(t *testing.T) {
	cfg := testConfig(t)
	app, _ := newTestApp(cfg)

	err := runStep(context.Background(), app, cfg, "render", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v is not actionable", err)
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected configuration suggestions")
	}
}

func TestRunStepSeesProjectEnv(t *testing.T) {
	cfg := testConfig(t)
	app, stdout := newTestApp(cfg)

	err := runStep(context.Background(), app, cfg, "render", `echo "$GUIDEKIT_OUTPUT_DIR"`)
	if err != nil {
		t.Fatalf("runStep: %v", err)
	}
	want := string(cfg.OutputDir) + "\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunStepRejectsBadSyntaxBeforeExecution(t *testing.T) {
	cfg := testConfig(t)
	app, stdout := newTestApp(cfg)

	err := runStep(context.Background(), app, cfg, "render", "echo unterminated '")
	if err == nil {
		t.Fatal("expected syntax error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v is not actionable", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("command produced output despite failing validation: %q", stdout.String())
	}
}

func TestRunStepCommandNotFound(t *testing.T) {
	cfg := testConfig(t)
	app, _ := newTestApp(cfg)

	err := runStep(context.Background(), app, cfg, "render", "definitely-not-a-guidekit-command")
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v is not actionable", err)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v does not carry an exit code", err)
	}
	if !exitErr.Code.IsCommandError() {
		t.Errorf("Code = %d, want a command-resolution failure code", exitErr.Code)
	}
}

func TestConfigKeyForStep(t *testing.T) {
	if got := configKeyForStep("check-links"); got != "check_links" {
		t.Errorf("configKeyForStep(check-links) = %q", got)
	}
	if got := configKeyForStep("render"); got != "render" {
		t.Errorf("configKeyForStep(render) = %q", got)
	}
}
