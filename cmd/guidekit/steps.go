// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"guidekit-cli/internal/config"
	"guidekit-cli/internal/extrun"
	"guidekit-cli/internal/issue"
	"guidekit-cli/pkg/types"
)

// newStepRunner builds the embedded shell runner for external collaborator
// steps, injecting the GUIDEKIT_* project layout variables.
func newStepRunner(app *App, cfg *config.Config) *extrun.Runner {
	return extrun.New("", map[string]string{
		extrun.EnvSamplesDir: string(cfg.SamplesDir),
		extrun.EnvOutputDir:  string(cfg.OutputDir),
		extrun.EnvSiteDir:    string(cfg.SiteDir),
	}, extrun.IO{
		Stdin:  os.Stdin,
		Stdout: app.stdout,
		Stderr: app.stderr,
	})
}

// runStep executes one configured collaborator step. An unconfigured step
// becomes an actionable error; a non-zero exit propagates the collaborator's
// exit code instead of collapsing it to 1.
func runStep(ctx context.Context, app *App, cfg *config.Config, step string, command config.CommandLine) error {
	runner := newStepRunner(app, cfg)

	// Pre-flight parse so configuration mistakes surface before the command
	// has any side effects.
	if err := runner.Validate(step, string(command)); err != nil {
		var notConfigured *extrun.NotConfiguredError
		if errors.As(err, &notConfigured) {
			return issue.NewErrorContext().
				WithOperation(fmt.Sprintf("run %s step", step)).
				WithSuggestion(fmt.Sprintf("Configure %s.command in guidekit.cue", configKeyForStep(step))).
				WithSuggestion("See 'guidekit config show' for the current configuration").
				Wrap(err).
				BuildError()
		}
		return issue.NewErrorContext().
			WithOperation(fmt.Sprintf("run %s step", step)).
			WithResource(configKeyForStep(step) + ".command").
			WithSuggestion("Fix the shell syntax of the configured command").
			Wrap(err).
			BuildError()
	}

	app.Logger.Debug("running step", "step", step, "command", string(command))

	err := runner.Run(ctx, step, string(command))
	if err == nil {
		app.Logger.Info("step succeeded", "step", step)
		return nil
	}

	var exitErr *extrun.ExitError
	if errors.As(err, &exitErr) {
		code := types.ExitCode(exitErr.Code)
		if code.IsCommandError() {
			// 126/127 mean the collaborator itself never ran.
			return issue.NewErrorContext().
				WithOperation(fmt.Sprintf("run %s step", step)).
				WithSuggestion("Check that the command is installed and on PATH").
				WithSuggestion(fmt.Sprintf("Review %s.command in guidekit.cue", configKeyForStep(step))).
				Wrap(&ExitError{Code: code, Err: err}).
				BuildError()
		}
		return &ExitError{Code: code, Err: err}
	}

	return err
}

// configKeyForStep maps a step name to its configuration section.
func configKeyForStep(step string) string {
	switch step {
	case "check-links":
		return "check_links"
	default:
		return step
	}
}
