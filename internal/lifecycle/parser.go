package lifecycle

import (
	"log/slog"
	"regexp"

	"github.com/eiffel-community/etos-test-runner/internal/events"
)

// statusMarker maps a finished-marker pattern to its outcome classification
type statusMarker struct {
	name    string
	pattern func(*PatternSet) *regexp.Regexp
	outcome events.Outcome
}

// statusTable is the fixed-order outcome classification for finished markers
var statusTable = []statusMarker{
	{
		name:    PatternPassed,
		pattern: func(p *PatternSet) *regexp.Regexp { return p.Passed },
		outcome: events.Outcome{Verdict: events.VerdictPassed, Conclusion: events.ConclusionSuccessful},
	},
	{
		name:    PatternFailed,
		pattern: func(p *PatternSet) *regexp.Regexp { return p.Failed },
		outcome: events.Outcome{Verdict: events.VerdictFailed, Conclusion: events.ConclusionFailed},
	},
	{
		name:    PatternError,
		pattern: func(p *PatternSet) *regexp.Regexp { return p.Error },
		outcome: events.Outcome{Verdict: events.VerdictFailed, Conclusion: events.ConclusionInconclusive},
	},
	{
		name:    PatternSkipped,
		pattern: func(p *PatternSet) *regexp.Regexp { return p.Skipped },
		outcome: events.Outcome{Verdict: events.VerdictPassed, Conclusion: events.ConclusionSuccessful, Description: "SKIPPED"},
	},
}

// testRecord tracks the notification handles of a single detected test name
type testRecord struct {
	triggered events.Handle
	started   events.Handle
	finished  events.Handle
}

// Parser consumes a live sequence of output lines and emits lifecycle
// notifications through a Notifier. States per test name run
// unknown → triggered → started → finished; started and finished markers
// lacking a prior triggered handle are silently dropped but counted.
type Parser struct {
	patterns *PatternSet
	notifier events.Notifier
	logger   *slog.Logger

	current    string
	tests      map[string]*testRecord
	dropped    int
	notifyErrs int
}

// NewParser creates a parser emitting notifications through notifier
func NewParser(patterns *PatternSet, notifier events.Notifier, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		patterns: patterns,
		notifier: notifier,
		logger:   logger,
		tests:    make(map[string]*testRecord),
	}
}

// ParseLine evaluates one output line against all patterns in fixed priority
// order: test name first, then triggered, started and the finished markers,
// all against the current-test-name context established on this line. Empty
// lines are ignored. ParseLine never fails; notification errors degrade to a
// warning and a counter.
func (p *Parser) ParseLine(line string) {
	if line == "" {
		return
	}

	if name, ok := p.patterns.matchName(line); ok {
		p.current = name
		if _, seen := p.tests[name]; !seen {
			p.tests[name] = &testRecord{}
		}
	}

	if matchesStart(p.patterns.Triggered, line) {
		p.handleTriggered()
	}
	if matchesStart(p.patterns.Started, line) {
		p.handleStarted()
	}
	for _, status := range statusTable {
		if matchesStart(status.pattern(p.patterns), line) {
			p.handleFinished(status)
		}
	}
}

// DroppedMarkers returns the number of started/finished markers that were
// silently dropped because no triggered notification preceded them.
func (p *Parser) DroppedMarkers() int {
	return p.dropped
}

// NotificationErrors returns the number of notifications that failed to send
func (p *Parser) NotificationErrors() int {
	return p.notifyErrs
}

func (p *Parser) handleTriggered() {
	record, ok := p.tests[p.current]
	if !ok {
		// Marker arrived before any test name was detected.
		return
	}
	handle, err := p.notifier.SendTestCaseTriggered(p.current)
	if err != nil {
		p.notifyErrs++
		p.logger.Warn("Failed to send test case triggered", "test", p.current, "error", err)
		return
	}
	record.triggered = handle
}

func (p *Parser) handleStarted() {
	record, ok := p.tests[p.current]
	if !ok || !record.triggered.Valid() {
		p.dropped++
		return
	}
	handle, err := p.notifier.SendTestCaseStarted(record.triggered)
	if err != nil {
		p.notifyErrs++
		p.logger.Warn("Failed to send test case started", "test", p.current, "error", err)
		return
	}
	record.started = handle
}

func (p *Parser) handleFinished(status statusMarker) {
	record, ok := p.tests[p.current]
	if !ok || !record.triggered.Valid() {
		p.dropped++
		return
	}
	handle, err := p.notifier.SendTestCaseFinished(record.triggered, status.outcome)
	if err != nil {
		p.notifyErrs++
		p.logger.Warn("Failed to send test case finished", "test", p.current, "marker", status.name, "error", err)
		return
	}
	// A repeated finished marker overwrites the previous record.
	record.finished = handle
}
