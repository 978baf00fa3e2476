// SPDX-License-Identifier: MPL-2.0

package extrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Environment variable names injected into collaborator commands.
const (
	EnvSamplesDir = "GUIDEKIT_SAMPLES_DIR"
	EnvOutputDir  = "GUIDEKIT_OUTPUT_DIR"
	EnvSiteDir    = "GUIDEKIT_SITE_DIR"
)

// NotConfiguredError is returned when a step has no command line configured.
type NotConfiguredError struct {
	Step string
}

// Error implements the error interface.
func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("no command configured for step %q", e.Step)
}

// ExitError is returned when a collaborator command exits non-zero.
type ExitError struct {
	Step string
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("step %q failed with exit code %d", e.Step, e.Code)
}

// IO bundles the standard streams wired into the interpreter.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes collaborator command lines in an embedded shell.
type Runner struct {
	// Dir is the working directory for commands. Empty means the process cwd.
	Dir string
	// Env holds extra variables layered over the process environment.
	Env map[string]string
	// IO is where command output goes.
	IO IO
}

// New creates a Runner with the given working directory and extra environment.
func New(dir string, env map[string]string, io IO) *Runner {
	return &Runner{Dir: dir, Env: env, IO: io}
}

// Validate parses a command line without running it, so configuration
// problems surface before any side effects.
func (r *Runner) Validate(step, command string) error {
	if command == "" {
		return &NotConfiguredError{Step: step}
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(command), step); err != nil {
		return fmt.Errorf("command syntax error in step %q: %w", step, err)
	}
	return nil
}

// Run executes a collaborator command line. A non-zero exit status is
// returned as *ExitError; other failures keep their underlying cause.
func (r *Runner) Run(ctx context.Context, step, command string) error {
	if command == "" {
		return &NotConfiguredError{Step: step}
	}

	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(command), step)
	if err != nil {
		return fmt.Errorf("failed to parse command for step %q: %w", step, err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(r.environ()...)),
		interp.StdIO(r.IO.Stdin, r.IO.Stdout, r.IO.Stderr),
	}
	if r.Dir != "" {
		opts = append(opts, interp.Dir(r.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &ExitError{Step: step, Code: int(exitStatus)}
		}
		return fmt.Errorf("step %q execution failed: %w", step, err)
	}

	return nil
}

// environ layers the extra variables over the process environment.
// Extra keys are emitted in sorted order for deterministic behavior.
func (r *Runner) environ() []string {
	env := os.Environ()

	keys := make([]string, 0, len(r.Env))
	for k := range r.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+r.Env[k])
	}
	return env
}
