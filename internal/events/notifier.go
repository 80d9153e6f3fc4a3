// Package events defines the lifecycle notification boundary of the test
// executor: the Notifier interface used by the output parser, the
// Eiffel-style event documents it produces, and an HTTP publisher that sends
// them to an event repository.
package events

import "errors"

// Error definitions
var (
	// ErrNotificationFailed is the distinguished condition for a
	// notification that could not be delivered. It never crashes the
	// parser; callers degrade by not recording a handle.
	ErrNotificationFailed = errors.New("notification failed")
)

// Verdict values for a finished test case
const (
	VerdictPassed = "PASSED"
	VerdictFailed = "FAILED"
)

// Conclusion values for a finished test case
const (
	ConclusionSuccessful   = "SUCCESSFUL"
	ConclusionFailed       = "FAILED"
	ConclusionInconclusive = "INCONCLUSIVE"
)

// Outcome classifies a finished test case
type Outcome struct {
	Verdict     string `json:"verdict"`
	Conclusion  string `json:"conclusion"`
	Description string `json:"description,omitempty"`
}

// Handle references a previously sent notification. The zero Handle is
// invalid and means no notification was produced.
type Handle struct {
	EventID string
}

// Valid reports whether the handle references a sent notification
func (h Handle) Valid() bool {
	return h.EventID != ""
}

// Notifier sends lifecycle notifications for detected test cases. All
// operations are fire-and-forget from the orchestrator's perspective; return
// values are only used as handles for the next phase.
type Notifier interface {
	// SendTestCaseTriggered announces that a test case has been triggered
	SendTestCaseTriggered(testName string) (Handle, error)

	// SendTestCaseStarted announces that a previously triggered test case
	// has started
	SendTestCaseStarted(triggered Handle) (Handle, error)

	// SendTestCaseFinished announces the outcome of a previously triggered
	// test case
	SendTestCaseFinished(triggered Handle, outcome Outcome) (Handle, error)
}
