// Package lifecycle reconstructs structured test lifecycle events from the
// unstructured output of a test framework. A table of named patterns detects
// test-name boundaries and lifecycle markers; a per-test state machine maps
// detected markers to outbound notifications, exactly once per transition.
package lifecycle

import (
	"fmt"
	"regexp"
)

// Pattern table keys
const (
	PatternTestName  = "test_name"
	PatternTriggered = "triggered"
	PatternStarted   = "started"
	PatternPassed    = "passed"
	PatternFailed    = "failed"
	PatternError     = "error"
	PatternSkipped   = "skipped"
)

// defaultPatterns matches the plain marker vocabulary used by the executor
// wrapper scripts. Framework-specific tables are supplied via configuration.
var defaultPatterns = map[string]string{
	PatternTestName:  `(test_[\w.-]+)`,
	PatternTriggered: `TRIGGERED`,
	PatternStarted:   `STARTED`,
	PatternPassed:    `PASSED`,
	PatternFailed:    `FAILED`,
	PatternError:     `ERROR`,
	PatternSkipped:   `SKIPPED`,
}

// PatternSet holds the compiled patterns driving the lifecycle state machine.
// Marker patterns are matched at the start of a line; the test-name pattern
// is searched anywhere in the line and its first capture group (or the whole
// match) becomes the current test name.
type PatternSet struct {
	TestName  *regexp.Regexp
	Triggered *regexp.Regexp
	Started   *regexp.Regexp
	Passed    *regexp.Regexp
	Failed    *regexp.Regexp
	Error     *regexp.Regexp
	Skipped   *regexp.Regexp
}

// DefaultPatterns returns the compiled default pattern set
func DefaultPatterns() *PatternSet {
	patterns, err := CompilePatterns(nil)
	if err != nil {
		// The default table is compiled-in and must always be valid.
		panic(err)
	}
	return patterns
}

// CompilePatterns compiles a pattern table into a PatternSet. Keys absent
// from the table fall back to the defaults; unknown keys are rejected so
// configuration typos surface early.
func CompilePatterns(table map[string]string) (*PatternSet, error) {
	merged := make(map[string]string, len(defaultPatterns))
	for key, pattern := range defaultPatterns {
		merged[key] = pattern
	}
	for key, pattern := range table {
		if _, known := defaultPatterns[key]; !known {
			return nil, fmt.Errorf("unknown pattern key %q", key)
		}
		merged[key] = pattern
	}

	compiled := make(map[string]*regexp.Regexp, len(merged))
	for key, pattern := range merged {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", key, err)
		}
		compiled[key] = re
	}

	return &PatternSet{
		TestName:  compiled[PatternTestName],
		Triggered: compiled[PatternTriggered],
		Started:   compiled[PatternStarted],
		Passed:    compiled[PatternPassed],
		Failed:    compiled[PatternFailed],
		Error:     compiled[PatternError],
		Skipped:   compiled[PatternSkipped],
	}, nil
}

// matchName searches line for the test-name pattern and returns the captured
// name
func (p *PatternSet) matchName(line string) (string, bool) {
	match := p.TestName.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	if len(match) > 1 {
		return match[1], true
	}
	return match[0], true
}

// matchesStart reports whether re matches at the beginning of line
func matchesStart(re *regexp.Regexp, line string) bool {
	loc := re.FindStringIndex(line)
	return loc != nil && loc[0] == 0
}
