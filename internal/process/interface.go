// Package process provides shell command execution for the test executor.
// It supports a blocking call with captured output, used for checkout, and a
// streaming call that tees combined output to a report file while yielding it
// line by line, used for test execution.
package process

import "context"

// ExitCodeUnknown is reported when the process state is unavailable
const ExitCodeUnknown = -1

// Result contains the result of a blocking command execution
type Result struct {
	ExitCode int
	// Output is the combined stdout/stderr of the command
	Output string
}

// Success reports whether the command exited with code zero
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner defines the interface for running shell commands
type Runner interface {
	// Run executes a shell command in dir and blocks until it exits or ctx
	// is done. A non-zero exit is reported through Result.ExitCode, not as
	// an error; the error return covers spawn failures and ctx expiry.
	Run(ctx context.Context, command string, dir string) (*Result, error)

	// Stream starts a shell command in dir with stderr combined into
	// stdout, writing every output line to reportPath while also yielding
	// it on the returned stream.
	Stream(ctx context.Context, command string, dir string, reportPath string) (*Stream, error)
}
