// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"guidekit-cli/internal/config"
	"guidekit-cli/internal/discovery"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer — all Cobra command handlers receive an App
	// reference and delegate business logic through its services.
	App struct {
		Config ConfigProvider
		Logger *log.Logger
		stdout io.Writer
		stderr io.Writer

		// configFilePath is the explicit --config flag value.
		configFilePath string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests can
	// supply mock implementations to isolate specific service behavior.
	Dependencies struct {
		Config ConfigProvider
		Logger *log.Logger
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mocks.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(deps.Stderr, log.Options{
			ReportTimestamp: false,
		})
	}

	return &App{
		Config: deps.Config,
		Logger: deps.Logger,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads configuration honoring the --config flag.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configFilePath})
}

// renderDiagnostics writes structured discovery diagnostics through the
// application logger so warnings and errors share one rendering policy.
func (a *App) renderDiagnostics(diags []discovery.Diagnostic) {
	for _, diag := range diags {
		logger := a.Logger.Warn
		if diag.Severity == discovery.SeverityError {
			logger = a.Logger.Error
		}
		if diag.Path != "" {
			logger(diag.Message, "path", diag.Path)
			continue
		}
		logger(diag.Message)
	}
}

// printf writes formatted output to the application stdout.
func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}
