package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiffel-community/etos-test-runner/internal/events"
)

func newTestParser(notifier events.Notifier) *Parser {
	return NewParser(DefaultPatterns(), notifier, nil)
}

func feed(parser *Parser, lines ...string) {
	for _, line := range lines {
		parser.ParseLine(line)
	}
}

func TestParser_FullLifecycle(t *testing.T) {
	notifier := &events.MockNotifier{}
	parser := newTestParser(notifier)

	feed(parser, "test_foo", "TRIGGERED", "STARTED", "PASSED")

	require.Len(t, notifier.Notifications, 3)
	assert.Equal(t, events.TypeTestCaseTriggered, notifier.Notifications[0].Type)
	assert.Equal(t, "test_foo", notifier.Notifications[0].TestName)
	assert.Equal(t, events.TypeTestCaseStarted, notifier.Notifications[1].Type)
	assert.Equal(t, events.TypeTestCaseFinished, notifier.Notifications[2].Type)

	finished := notifier.Notifications[2]
	assert.Equal(t, events.VerdictPassed, finished.Outcome.Verdict)
	assert.Equal(t, events.ConclusionSuccessful, finished.Outcome.Conclusion)
	assert.Empty(t, finished.Outcome.Description)
	assert.Zero(t, parser.DroppedMarkers())
}

func TestParser_StartedAndFinishedLinkToTriggered(t *testing.T) {
	notifier := &events.MockNotifier{}
	parser := newTestParser(notifier)

	feed(parser, "test_foo", "TRIGGERED", "STARTED", "FAILED")

	require.Len(t, notifier.Notifications, 3)
	triggeredHandle := notifier.Notifications[1].Triggered
	assert.True(t, triggeredHandle.Valid())
	assert.Equal(t, triggeredHandle, notifier.Notifications[2].Triggered,
		"started and finished must reference the same triggered handle")
}

func TestParser_OutcomeClassification(t *testing.T) {
	tests := []struct {
		marker   string
		expected events.Outcome
	}{
		{
			marker:   "PASSED",
			expected: events.Outcome{Verdict: events.VerdictPassed, Conclusion: events.ConclusionSuccessful},
		},
		{
			marker:   "FAILED",
			expected: events.Outcome{Verdict: events.VerdictFailed, Conclusion: events.ConclusionFailed},
		},
		{
			marker:   "ERROR",
			expected: events.Outcome{Verdict: events.VerdictFailed, Conclusion: events.ConclusionInconclusive},
		},
		{
			marker:   "SKIPPED",
			expected: events.Outcome{Verdict: events.VerdictPassed, Conclusion: events.ConclusionSuccessful, Description: "SKIPPED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			notifier := &events.MockNotifier{}
			parser := newTestParser(notifier)

			feed(parser, "test_foo", "TRIGGERED", tt.marker)

			finished := notifier.OfType(events.TypeTestCaseFinished)
			require.Len(t, finished, 1)
			assert.Equal(t, tt.expected, finished[0].Outcome)
		})
	}
}

func TestParser_StartedWithoutTriggeredIsDropped(t *testing.T) {
	notifier := &events.MockNotifier{}
	parser := newTestParser(notifier)

	feed(parser, "test_foo", "STARTED", "PASSED")

	assert.Empty(t, notifier.Notifications)
	assert.Equal(t, 2, parser.DroppedMarkers())
}

func TestParser_MarkerBeforeAnyTestName(t *testing.T) {
	notifier := &events.MockNotifier{}
	parser := newTestParser(notifier)

	// No test name has been detected yet; markers cannot be attributed.
	feed(parser, "TRIGGERED", "STARTED")

	assert.Empty(t, notifier.Notifications)
}

func TestParser_InterleavedTests(t *testing.T) {
	notifier := &events.MockNotifier{}
	parser := newTestParser(notifier)

	feed(parser,
		"test_one", "TRIGGERED",
		"test_two", "TRIGGERED",
		"test_one", "STARTED", "PASSED",
		"test_two", "STARTED", "FAILED",
	)

	triggered := notifier.OfType(events.TypeTestCaseTriggered)
	require.Len(t, triggered, 2)
	assert.Equal(t, "test_one", triggered[0].TestName)
	assert.Equal(t, "test_two", triggered[1].TestName)

	finished := notifier.OfType(events.TypeTestCaseFinished)
	require.Len(t, finished, 2)
	assert.Equal(t, events.VerdictPassed, finished[0].Outcome.Verdict)
	assert.Equal(t, events.VerdictFailed, finished[1].Outcome.Verdict)
}

func TestParser_SingleLineMatchesMultiplePatterns(t *testing.T) {
	// The name and status rules both match; the status applies to the name
	// established on the same line.
	patterns, err := CompilePatterns(map[string]string{
		PatternTestName: `^PASSED: (test_[\w.-]+)`,
		PatternPassed:   `PASSED`,
	})
	require.NoError(t, err)

	notifier := &events.MockNotifier{}
	parser := NewParser(patterns, notifier, nil)

	parser.ParseLine("TRIGGERED test_ignored") // establishes nothing, no name matched
	feed(parser, "PASSED: test_foo")
	assert.Empty(t, notifier.OfType(events.TypeTestCaseFinished),
		"finished before triggered must be dropped")

	// Now run the triggered marker for the same name, then the combined line.
	parser2 := NewParser(patterns, notifier, nil)
	feed(parser2, "PASSED: test_foo") // sets current name, finished dropped
	feed(parser2, "TRIGGERED")
	feed(parser2, "PASSED: test_foo")

	assert.Len(t, notifier.OfType(events.TypeTestCaseTriggered), 1)
	assert.Len(t, notifier.OfType(events.TypeTestCaseFinished), 1)
}

func TestParser_RepeatedFinishedOverwrites(t *testing.T) {
	notifier := &events.MockNotifier{}
	parser := newTestParser(notifier)

	feed(parser, "test_foo", "TRIGGERED", "PASSED", "FAILED")

	// Both finished notifications are sent; the later one overwrites the
	// record but is not an error.
	finished := notifier.OfType(events.TypeTestCaseFinished)
	require.Len(t, finished, 2)
	assert.Zero(t, parser.DroppedMarkers())
}

func TestParser_EmptyLinesIgnored(t *testing.T) {
	notifier := &events.MockNotifier{}
	parser := newTestParser(notifier)

	feed(parser, "", "test_foo", "", "TRIGGERED", "")

	assert.Len(t, notifier.Notifications, 1)
}

func TestParser_NotificationFailureDoesNotCorruptState(t *testing.T) {
	notifier := &events.MockNotifier{Err: errors.New("event repository down")}
	parser := newTestParser(notifier)

	feed(parser, "test_foo", "TRIGGERED")
	assert.Equal(t, 1, parser.NotificationErrors())

	// The triggered handle was never recorded, so started is dropped.
	notifier.Err = nil
	feed(parser, "STARTED")
	assert.Empty(t, notifier.Notifications)
	assert.Equal(t, 1, parser.DroppedMarkers())
}
