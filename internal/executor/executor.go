// Package executor orchestrates the execution of a single test unit: resolve
// constraints, prepare the checkout directory, generate the wrapper scripts,
// run the test process and feed its output through the lifecycle parser.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/eiffel-community/etos-test-runner/internal/checkout"
	"github.com/eiffel-community/etos-test-runner/internal/command"
	"github.com/eiffel-community/etos-test-runner/internal/common"
	"github.com/eiffel-community/etos-test-runner/internal/events"
	"github.com/eiffel-community/etos-test-runner/internal/lifecycle"
	"github.com/eiffel-community/etos-test-runner/internal/process"
	"github.com/eiffel-community/etos-test-runner/internal/testunit"
	"github.com/eiffel-community/etos-test-runner/internal/workdir"
)

const (
	// ReportFile is the persisted raw output of the test process, created
	// inside the prepared test directory
	ReportFile = "test_output.log"

	// environScript holds the environment exports and pre-execution steps
	environScript = "environ.sh"

	// entryScript is the generated executor entry point sourcing the
	// environment before running the test command
	entryScript = "executor.sh"

	scriptPerm = 0o755
)

// entryScriptBody sources the environment script and then runs the test
// command handed over as arguments. Its exit status is the test command's.
const entryScriptBody = "#!/bin/bash\nsource ./" + environScript + " || exit 1\neval \"$@\"\n"

// Result is the outcome of one test unit execution
type Result struct {
	// Success is true when the final captured output line was non-empty
	Success bool
	// DroppedMarkers counts lifecycle markers discarded for lack of a
	// prior triggered notification
	DroppedMarkers int
}

// Executor executes a single test unit. One Executor serves one unit; its
// checkout cache is instance-owned and must not be shared across concurrent
// units.
type Executor struct {
	unit     *testunit.TestUnit
	runner   process.Runner
	notifier events.Notifier
	cache    *checkout.Cache
	patterns *lifecycle.PatternSet
	fs       common.FileSystem
	logger   *slog.Logger

	// executorPath is the fixed entry point prepended to the test command
	executorPath string
}

// Option configures an Executor
type Option func(*Executor)

// WithCache overrides the instance-owned checkout cache
func WithCache(cache *checkout.Cache) Option {
	return func(e *Executor) { e.cache = cache }
}

// WithPatterns overrides the lifecycle pattern set
func WithPatterns(patterns *lifecycle.PatternSet) Option {
	return func(e *Executor) { e.patterns = patterns }
}

// WithFS overrides the filesystem, for testing
func WithFS(fs common.FileSystem) Option {
	return func(e *Executor) { e.fs = fs }
}

// WithExecutorPath overrides the executor entry point path
func WithExecutorPath(path string) Option {
	return func(e *Executor) { e.executorPath = path }
}

// WithLogger overrides the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// New creates an executor for one test unit
func New(unit *testunit.TestUnit, runner process.Runner, notifier events.Notifier, opts ...Option) *Executor {
	e := &Executor{
		unit:         unit,
		runner:       runner,
		notifier:     notifier,
		patterns:     lifecycle.DefaultPatterns(),
		fs:           common.NewDefaultFileSystem(),
		logger:       slog.Default(),
		executorPath: "./" + entryScript,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = checkout.NewCache(runner, checkout.WithFS(e.fs))
	}
	return e
}

// Execute runs the test unit to completion. Checkout timeout and checkout
// failure abort the unit before any process is started and propagate
// unchanged. Failures inside the test process surface only through the
// parsed output: the unit result is the truthiness of the last observed
// output line, and an empty stream means failure.
func (e *Executor) Execute(ctx context.Context) (*Result, error) {
	resolved := testunit.ResolveConstraints(e.unit.Constraints)

	e.logger.Info("Figure out test directory", "test_case", e.unit.TestCase.ID)
	dir, err := e.cache.DirectoryFor(ctx, resolved.Checkout)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Change directory to test directory", "dir", dir)

	result := &Result{}
	err = workdir.In(dir, func() error {
		reportPath := filepath.Join(dir, ReportFile)
		e.logger.Info("Report path", "path", reportPath)

		if err := e.writeScripts(resolved); err != nil {
			return err
		}

		testCommand := command.BuildTestCommand(e.executorPath, resolved)
		e.logger.Info("Run test command", "command", testCommand)

		parser := lifecycle.NewParser(e.patterns, e.notifier, e.logger)
		stream, err := e.runner.Stream(ctx, testCommand, "", reportPath)
		if err != nil {
			return fmt.Errorf("failed to start test command: %w", err)
		}

		var last string
		for line := range stream.Lines() {
			parser.ParseLine(line)
			last = line
		}
		if err := stream.Wait(); err != nil {
			e.logger.Warn("Test output stream ended with error", "error", err)
		}
		if dropped := parser.DroppedMarkers(); dropped > 0 {
			e.logger.Warn("Dropped lifecycle markers without a triggered record", "count", dropped)
		}
		if errs := parser.NotificationErrors(); errs > 0 {
			e.logger.Warn("Lifecycle notifications failed to send", "count", errs)
		}

		result.Success = last != ""
		result.DroppedMarkers = parser.DroppedMarkers()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Finished", "test_case", e.unit.TestCase.ID, "success", result.Success)
	return result, nil
}

// writeScripts generates the environment/pre-execution script and the
// executor entry point inside the current test directory
func (e *Executor) writeScripts(resolved testunit.Resolved) error {
	environ := command.GuardedScript(command.BuildEnvironmentScript(resolved))
	if err := e.fs.WriteFile(environScript, environ, scriptPerm); err != nil {
		return fmt.Errorf("failed to write environment script: %w", err)
	}
	if err := e.fs.WriteFile(entryScript, []byte(entryScriptBody), scriptPerm); err != nil {
		return fmt.Errorf("failed to write executor entry point: %w", err)
	}
	return nil
}
