package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Error definitions
var (
	ErrEmptyCommand = errors.New("command cannot be empty")
)

const (
	// shell is the interpreter used for all generated commands and scripts
	shell = "/bin/bash"

	// reportFilePerm is the permission for report files
	reportFilePerm = 0o644
)

// DefaultRunner is the default implementation of Runner backed by os/exec
type DefaultRunner struct{}

// NewDefaultRunner creates a new default runner
func NewDefaultRunner() *DefaultRunner {
	return &DefaultRunner{}
}

// Run implements the Runner interface
func (r *DefaultRunner) Run(ctx context.Context, command string, dir string) (*Result, error) {
	if command == "" {
		return nil, ErrEmptyCommand
	}

	// #nosec G204 - the command is assembled from shell-escaped constraints
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = dir

	output, runErr := cmd.CombinedOutput()
	result := &Result{Output: string(output)}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	} else {
		result.ExitCode = ExitCodeUnknown
	}

	if runErr != nil {
		// Context expiry takes precedence so callers can detect timeouts.
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Non-zero exit is reported through the result.
			return result, nil
		}
		return result, fmt.Errorf("command execution failed: %w", runErr)
	}
	return result, nil
}

// Stream implements the Runner interface
func (r *DefaultRunner) Stream(ctx context.Context, command string, dir string, reportPath string) (*Stream, error) {
	if command == "" {
		return nil, ErrEmptyCommand
	}

	report, err := os.OpenFile(reportPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, reportFilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file %s: %w", reportPath, err)
	}

	// #nosec G204 - the command is assembled from shell-escaped constraints
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = dir

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		report.Close()
		return nil, fmt.Errorf("failed to start command: %w", err)
	}

	stream := &Stream{
		lines: make(chan string),
		done:  make(chan struct{}),
	}

	go func() {
		// Unblock the reader once the process is gone. Exit status is
		// intentionally discarded: test failures surface through the
		// parsed output, never through the orchestrator's exit path.
		_ = cmd.Wait()
		pw.Close()
	}()

	go func() {
		defer close(stream.done)
		defer close(stream.lines)
		defer report.Close()

		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := scanner.Text()
			fmt.Fprintln(report, line)
			stream.lines <- line
		}
		stream.scanErr = scanner.Err()
	}()

	return stream, nil
}

// maxLineSize bounds a single output line (1 MiB)
const maxLineSize = 1 << 20

// Stream exposes the live output of a running command
type Stream struct {
	lines   chan string
	done    chan struct{}
	scanErr error
}

// Lines returns the channel of output lines. The channel is closed once the
// command exits and its output is drained.
func (s *Stream) Lines() <-chan string {
	return s.lines
}

// Wait blocks until the stream is drained and returns the first error
// encountered while reading output. Process exit status is intentionally not
// surfaced here: test failures are expressed through the parsed output.
func (s *Stream) Wait() error {
	<-s.done
	return s.scanErr
}
