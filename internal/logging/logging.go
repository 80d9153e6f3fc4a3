// Package logging sets up the structured logger for the executor and
// generates per-run identifiers.
package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"
)

// Error definitions
var (
	// ErrUnknownLogLevel is returned for an unrecognized level name
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// GenerateRunID generates a new ULID identifying one executor run. ULIDs
// sort lexicographically by time, which keeps log files from concurrent
// units in creation order.
func GenerateRunID() string {
	return ulid.Make().String()
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, name)
	}
}

// Setup configures the default slog logger. Interactive sessions get a
// human-readable text handler; non-interactive (CI) sessions get JSON so the
// outer scheduler can index the output. Every record carries the run ID.
func Setup(levelName string, runID string) (*slog.Logger, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if IsInteractive() {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler).With("run_id", runID)
	slog.SetDefault(logger)
	return logger, nil
}
