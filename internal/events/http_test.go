package events

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingServer struct {
	mu     sync.Mutex
	events []Event
	status int
}

func (s *recordingServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var event Event
	_ = json.Unmarshal(body, &event)

	s.mu.Lock()
	s.events = append(s.events, event)
	status := s.status
	s.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}

func (s *recordingServer) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func newTestPublisher(t *testing.T, status int) (*HTTPPublisher, *recordingServer) {
	t.Helper()
	server := &recordingServer{status: status}
	ts := httptest.NewServer(http.HandlerFunc(server.handler))
	t.Cleanup(ts.Close)

	publisher := NewHTTPPublisher(ts.URL, "artifact-1", "context-1")
	publisher.client.RetryMax = 0
	return publisher, server
}

func TestHTTPPublisher_SendTestCaseTriggered(t *testing.T) {
	publisher, server := newTestPublisher(t, http.StatusOK)

	handle, err := publisher.SendTestCaseTriggered("test_foo")
	require.NoError(t, err)
	assert.True(t, handle.Valid())

	received := server.received()
	require.Len(t, received, 1)
	event := received[0]

	assert.Equal(t, TypeTestCaseTriggered, event.Meta.Type)
	assert.Equal(t, handle.EventID, event.Meta.ID)
	assert.NotZero(t, event.Meta.Time)
	assert.Equal(t, map[string]any{"id": "test_foo"}, event.Data["testCase"])
	assert.Contains(t, event.Links, Link{Type: LinkIUT, Target: "artifact-1"})
	assert.Contains(t, event.Links, Link{Type: LinkContext, Target: "context-1"})
}

func TestHTTPPublisher_LifecycleChain(t *testing.T) {
	publisher, server := newTestPublisher(t, http.StatusOK)

	triggered, err := publisher.SendTestCaseTriggered("test_foo")
	require.NoError(t, err)

	started, err := publisher.SendTestCaseStarted(triggered)
	require.NoError(t, err)
	assert.True(t, started.Valid())

	outcome := Outcome{Verdict: VerdictPassed, Conclusion: ConclusionSuccessful}
	finished, err := publisher.SendTestCaseFinished(triggered, outcome)
	require.NoError(t, err)
	assert.True(t, finished.Valid())

	received := server.received()
	require.Len(t, received, 3)

	// Started and finished both link back to the triggered event.
	assert.Contains(t, received[1].Links, Link{Type: LinkTestCaseExecution, Target: triggered.EventID})
	assert.Contains(t, received[2].Links, Link{Type: LinkTestCaseExecution, Target: triggered.EventID})

	var decoded Outcome
	raw, err := json.Marshal(received[2].Data["outcome"])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, outcome, decoded)
}

func TestHTTPPublisher_ServerError(t *testing.T) {
	publisher, _ := newTestPublisher(t, http.StatusInternalServerError)

	handle, err := publisher.SendTestCaseTriggered("test_foo")
	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.False(t, handle.Valid())
}

func TestHTTPPublisher_UnreachableServer(t *testing.T) {
	publisher := NewHTTPPublisher("http://127.0.0.1:1", "artifact-1", "context-1")
	publisher.client.RetryMax = 0

	_, err := publisher.SendTestCaseTriggered("test_foo")
	assert.ErrorIs(t, err, ErrNotificationFailed)
}
