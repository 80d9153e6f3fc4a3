package process

import "context"

// Common mock implementations for testing across executor packages

// MockCall records a single invocation of the mock runner
type MockCall struct {
	Command string
	Dir     string
}

// MockRunner implements Runner for testing
type MockRunner struct {
	// Calls records every Run and Stream invocation in order
	Calls []MockCall

	// RunResult and RunErr are returned from Run; if RunFunc is set it
	// takes precedence
	RunResult *Result
	RunErr    error
	RunFunc   func(ctx context.Context, command, dir string) (*Result, error)

	// StreamLines are yielded from Stream; StreamErr aborts Stream early
	StreamLines []string
	StreamErr   error
}

// Run implements the Runner interface for testing
func (m *MockRunner) Run(ctx context.Context, command string, dir string) (*Result, error) {
	m.Calls = append(m.Calls, MockCall{Command: command, Dir: dir})
	if m.RunFunc != nil {
		return m.RunFunc(ctx, command, dir)
	}
	if m.RunErr != nil {
		return m.RunResult, m.RunErr
	}
	if m.RunResult != nil {
		return m.RunResult, nil
	}
	return &Result{ExitCode: 0}, nil
}

// Stream implements the Runner interface for testing
func (m *MockRunner) Stream(_ context.Context, command string, dir string, _ string) (*Stream, error) {
	m.Calls = append(m.Calls, MockCall{Command: command, Dir: dir})
	if m.StreamErr != nil {
		return nil, m.StreamErr
	}
	stream := &Stream{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(stream.done)
		defer close(stream.lines)
		for _, line := range m.StreamLines {
			stream.lines <- line
		}
	}()
	return stream, nil
}

// RunCalls returns the number of Run/Stream invocations recorded so far
func (m *MockRunner) RunCalls() int {
	return len(m.Calls)
}
