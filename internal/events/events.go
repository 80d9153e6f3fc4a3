package events

import (
	"time"

	"github.com/google/uuid"
)

// Eiffel event type names emitted by the executor
const (
	TypeTestCaseTriggered = "EiffelTestCaseTriggeredEvent"
	TypeTestCaseStarted   = "EiffelTestCaseStartedEvent"
	TypeTestCaseFinished  = "EiffelTestCaseFinishedEvent"

	eventVersion = "3.0.0"
)

// Link types connecting events to their context
const (
	LinkContext           = "CONTEXT"
	LinkIUT               = "IUT"
	LinkTestCaseExecution = "TEST_CASE_EXECUTION"
)

// Meta is the common event envelope
type Meta struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Version string `json:"version"`
	Time    int64  `json:"time"`
}

// Link connects an event to another event by ID
type Link struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// Event is an Eiffel-style lifecycle event document
type Event struct {
	Meta  Meta           `json:"meta"`
	Data  map[string]any `json:"data"`
	Links []Link         `json:"links"`
}

// newEvent creates an event envelope with a fresh ID and current timestamp
func newEvent(eventType string) Event {
	return Event{
		Meta: Meta{
			ID:      uuid.NewString(),
			Type:    eventType,
			Version: eventVersion,
			Time:    time.Now().UnixMilli(),
		},
		Data: map[string]any{},
	}
}
