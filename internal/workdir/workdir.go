// Package workdir provides scoped working-directory changes: enter a
// directory, run the enclosed logic, and restore the previous directory on
// every exit path.
package workdir

import (
	"errors"
	"fmt"
	"os"
)

// Error definitions
var (
	ErrEmptyDir = errors.New("directory cannot be empty")
)

// In changes into dir, runs fn, and restores the previous working directory
// before returning. The restore happens even when fn returns an error. A
// restore failure is reported only when fn itself succeeded, so the original
// error is never masked.
func In(dir string, fn func() error) error {
	if dir == "" {
		return ErrEmptyDir
	}

	previous, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("failed to change into %s: %w", dir, err)
	}

	fnErr := fn()
	if err := os.Chdir(previous); err != nil {
		if fnErr != nil {
			return fnErr
		}
		return fmt.Errorf("failed to restore directory %s: %w", previous, err)
	}
	return fnErr
}
