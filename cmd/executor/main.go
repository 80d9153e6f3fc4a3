// Package main provides the entry point for the test unit executor. It is
// invoked once per test unit by the suite scheduler with a test unit
// document and an executor configuration, runs the unit to completion and
// reports the overall outcome through its exit code.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eiffel-community/etos-test-runner/internal/checkout"
	"github.com/eiffel-community/etos-test-runner/internal/config"
	"github.com/eiffel-community/etos-test-runner/internal/events"
	"github.com/eiffel-community/etos-test-runner/internal/executor"
	"github.com/eiffel-community/etos-test-runner/internal/lifecycle"
	"github.com/eiffel-community/etos-test-runner/internal/logging"
	"github.com/eiffel-community/etos-test-runner/internal/process"
	"github.com/eiffel-community/etos-test-runner/internal/testunit"
)

// Error definitions
var (
	ErrUnitPathRequired   = errors.New("test unit file path is required")
	ErrConfigPathRequired = errors.New("config file path is required")
	ErrUnitFailed         = errors.New("test unit failed")
)

var (
	unitPath   = flag.String("unit", "", "path to the test unit JSON document")
	configPath = flag.String("config", "", "path to the executor TOML config")
	envFile    = flag.String("env-file", "", "path to environment file loaded before execution")
	logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error); overrides config")
)

func main() {
	// Generate run ID early so even setup failures are attributable.
	runID := logging.GenerateRunID()

	if err := run(runID); err != nil {
		if errors.Is(err, ErrUnitFailed) {
			os.Exit(1)
		}
		slog.Error("Executor failed", "run_id", runID, "error", err)
		os.Exit(2)
	}
}

func run(runID string) error {
	flag.Parse()

	// Set up context with cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *unitPath == "" {
		return ErrUnitPathRequired
	}
	if *configPath == "" {
		return ErrConfigPathRequired
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return fmt.Errorf("failed to load environment file %s: %w", *envFile, err)
		}
	}

	cfg, err := config.NewLoader().LoadConfig(*configPath)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logger, err := logging.Setup(level, runID)
	if err != nil {
		return err
	}

	unitData, err := os.ReadFile(*unitPath)
	if err != nil {
		return fmt.Errorf("failed to read test unit %s: %w", *unitPath, err)
	}
	unit, err := testunit.Decode(unitData)
	if err != nil {
		return err
	}

	patterns, err := lifecycle.CompilePatterns(cfg.Patterns)
	if err != nil {
		return err
	}

	runner := process.NewDefaultRunner()
	notifier := events.NewHTTPPublisher(cfg.EventRepositoryURL, cfg.ArtifactID, cfg.Context)
	cache := checkout.NewCache(runner,
		checkout.WithTimeout(time.Duration(cfg.CheckoutTimeout)*time.Second))

	exec := executor.New(unit, runner, notifier,
		executor.WithCache(cache),
		executor.WithPatterns(patterns),
		executor.WithExecutorPath(cfg.ExecutorPath),
		executor.WithLogger(logger),
	)

	result, err := exec.Execute(ctx)
	if err != nil {
		if errors.Is(err, checkout.ErrCheckoutTimeout) {
			return fmt.Errorf("checkout timed out for test case %s: %w", unit.TestCase.ID, err)
		}
		return err
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrUnitFailed, unit.TestCase.ID)
	}
	return nil
}
