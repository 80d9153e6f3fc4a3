// Package checkout provides a signature-keyed cache of prepared test working
// directories. The checkout procedure for a distinct step sequence runs
// exactly once per cache instance, bounded by a wall-clock timeout.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/eiffel-community/etos-test-runner/internal/command"
	"github.com/eiffel-community/etos-test-runner/internal/common"
	"github.com/eiffel-community/etos-test-runner/internal/process"
)

// Error definitions
var (
	// ErrCheckoutTimeout is returned when the checkout procedure exceeds
	// its wall-clock budget. It must propagate to the caller unchanged.
	ErrCheckoutTimeout = errors.New("took too long to checkout test cases")
	// ErrCheckoutFailed is the sentinel wrapped by CheckoutError
	ErrCheckoutFailed = errors.New("checkout failed")
)

const (
	// DefaultTimeout bounds a single checkout procedure
	DefaultTimeout = 60 * time.Second

	// checkoutScript is the generated script name inside the new directory
	checkoutScript = "checkout.sh"

	// scriptPerm is the permission for generated scripts
	scriptPerm = 0o755

	// dirPrefix is the prefix for generated checkout directories
	dirPrefix = "checkout_"
)

// CheckoutError reports a checkout script that exited non-zero. It carries
// the failing step list and the captured output for diagnostics.
//
//nolint:revive // checkout.CheckoutError is intentionally explicit at call sites
type CheckoutError struct {
	Steps  []string
	Output string
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("could not checkout tests using %q", e.Steps)
}

func (e *CheckoutError) Unwrap() error {
	return ErrCheckoutFailed
}

// Cache maps a checkout-step signature to a previously prepared working
// directory. Entries live for the lifetime of the cache and are never
// evicted. The cache is instance-owned; the mutex is held across the whole
// checkout so concurrent callers with the same signature still perform the
// procedure once.
type Cache struct {
	mu      sync.Mutex
	dirs    map[string]string
	baseDir string
	timeout time.Duration
	runner  process.Runner
	fs      common.FileSystem
}

// Option configures a Cache
type Option func(*Cache)

// WithTimeout overrides the checkout timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Cache) { c.timeout = timeout }
}

// WithBaseDir overrides the directory under which checkout directories are
// created. Defaults to the current working directory.
func WithBaseDir(dir string) Option {
	return func(c *Cache) { c.baseDir = dir }
}

// WithFS overrides the filesystem, for testing
func WithFS(fs common.FileSystem) Option {
	return func(c *Cache) { c.fs = fs }
}

// NewCache creates a new checkout cache backed by the given process runner
func NewCache(runner process.Runner, opts ...Option) *Cache {
	cache := &Cache{
		dirs:    make(map[string]string),
		timeout: DefaultTimeout,
		runner:  runner,
		fs:      common.NewDefaultFileSystem(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Signature derives the deterministic cache key for a checkout-step sequence
func Signature(steps []string) string {
	return strings.Join(steps, " ")
}

// DirectoryFor returns the working directory prepared for the given checkout
// steps, executing the checkout procedure on the first call for a distinct
// signature. Subsequent calls with the same signature return the cached path
// with no I/O. A timeout yields ErrCheckoutTimeout and a non-zero exit a
// *CheckoutError; neither populates the cache. Failed checkouts leave their
// partial directory behind.
func (c *Cache) DirectoryFor(ctx context.Context, steps []string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	signature := Signature(steps)
	if dir, ok := c.dirs[signature]; ok {
		return dir, nil
	}

	dir, err := c.prepare(ctx, steps)
	if err != nil {
		return "", err
	}
	c.dirs[signature] = dir
	return dir, nil
}

// prepare creates a fresh directory and runs the checkout procedure in it
func (c *Cache) prepare(ctx context.Context, steps []string) (string, error) {
	baseDir := c.baseDir
	if baseDir == "" {
		cwd, err := c.fs.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine base directory: %w", err)
		}
		baseDir = cwd
	}

	dir, err := c.fs.CreateTempDir(baseDir, dirPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout directory: %w", err)
	}

	scriptPath := filepath.Join(dir, checkoutScript)
	if err := c.fs.WriteFile(scriptPath, command.GuardedScript(steps), scriptPerm); err != nil {
		return "", fmt.Errorf("failed to write checkout script: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.runner.Run(ctx, "/bin/bash "+checkoutScript, dir)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w (limit %s)", ErrCheckoutTimeout, c.timeout)
		}
		return "", fmt.Errorf("checkout execution failed: %w", err)
	}
	if !result.Success() {
		return "", &CheckoutError{Steps: steps, Output: result.Output}
	}
	return dir, nil
}
