package events

import "fmt"

// Notification records a single mock notifier invocation
type Notification struct {
	Type      string
	TestName  string
	Triggered Handle
	Outcome   Outcome
}

// MockNotifier implements Notifier for testing, recording every notification
// in arrival order
type MockNotifier struct {
	Notifications []Notification

	// Err, when set, is returned from every send and no handle is produced
	Err error

	counter int
}

// SendTestCaseTriggered implements the Notifier interface for testing
func (m *MockNotifier) SendTestCaseTriggered(testName string) (Handle, error) {
	if m.Err != nil {
		return Handle{}, m.Err
	}
	m.Notifications = append(m.Notifications, Notification{
		Type:     TypeTestCaseTriggered,
		TestName: testName,
	})
	return m.nextHandle(), nil
}

// SendTestCaseStarted implements the Notifier interface for testing
func (m *MockNotifier) SendTestCaseStarted(triggered Handle) (Handle, error) {
	if m.Err != nil {
		return Handle{}, m.Err
	}
	m.Notifications = append(m.Notifications, Notification{
		Type:      TypeTestCaseStarted,
		Triggered: triggered,
	})
	return m.nextHandle(), nil
}

// SendTestCaseFinished implements the Notifier interface for testing
func (m *MockNotifier) SendTestCaseFinished(triggered Handle, outcome Outcome) (Handle, error) {
	if m.Err != nil {
		return Handle{}, m.Err
	}
	m.Notifications = append(m.Notifications, Notification{
		Type:      TypeTestCaseFinished,
		Triggered: triggered,
		Outcome:   outcome,
	})
	return m.nextHandle(), nil
}

// OfType returns the recorded notifications of the given event type
func (m *MockNotifier) OfType(eventType string) []Notification {
	var matched []Notification
	for _, n := range m.Notifications {
		if n.Type == eventType {
			matched = append(matched, n)
		}
	}
	return matched
}

func (m *MockNotifier) nextHandle() Handle {
	m.counter++
	return Handle{EventID: fmt.Sprintf("event-%d", m.counter)}
}
