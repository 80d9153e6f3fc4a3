package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

const publishRetryMax = 3

// HTTPPublisher implements Notifier by posting event documents to an event
// repository endpoint. The IUT artifact and the activity context are fixed
// per publisher instance: one executor serves one test unit.
type HTTPPublisher struct {
	client     *retryablehttp.Client
	url        string
	artifactID string
	contextID  string
}

// NewHTTPPublisher creates a publisher posting to url, linking every event to
// the given IUT artifact and activity context.
func NewHTTPPublisher(url, artifactID, contextID string) *HTTPPublisher {
	client := retryablehttp.NewClient()
	client.RetryMax = publishRetryMax
	client.Logger = nil
	return &HTTPPublisher{
		client:     client,
		url:        url,
		artifactID: artifactID,
		contextID:  contextID,
	}
}

// SendTestCaseTriggered implements the Notifier interface
func (p *HTTPPublisher) SendTestCaseTriggered(testName string) (Handle, error) {
	event := newEvent(TypeTestCaseTriggered)
	event.Data["testCase"] = map[string]any{"id": testName}
	event.Links = []Link{
		{Type: LinkIUT, Target: p.artifactID},
		{Type: LinkContext, Target: p.contextID},
	}
	return p.publish(event)
}

// SendTestCaseStarted implements the Notifier interface
func (p *HTTPPublisher) SendTestCaseStarted(triggered Handle) (Handle, error) {
	event := newEvent(TypeTestCaseStarted)
	event.Links = []Link{
		{Type: LinkTestCaseExecution, Target: triggered.EventID},
		{Type: LinkContext, Target: p.contextID},
	}
	return p.publish(event)
}

// SendTestCaseFinished implements the Notifier interface
func (p *HTTPPublisher) SendTestCaseFinished(triggered Handle, outcome Outcome) (Handle, error) {
	event := newEvent(TypeTestCaseFinished)
	event.Data["outcome"] = outcome
	event.Links = []Link{
		{Type: LinkTestCaseExecution, Target: triggered.EventID},
		{Type: LinkContext, Target: p.contextID},
	}
	return p.publish(event)
}

// publish posts the event document and returns its handle
func (p *HTTPPublisher) publish(event Event) (Handle, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return Handle{}, fmt.Errorf("%w: failed to encode %s: %w", ErrNotificationFailed, event.Meta.Type, err)
	}

	request, err := retryablehttp.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := p.client.Do(request)
	if err != nil {
		return Handle{}, fmt.Errorf("%w: failed to publish %s: %w", ErrNotificationFailed, event.Meta.Type, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return Handle{}, fmt.Errorf("%w: event repository returned %s for %s", ErrNotificationFailed, response.Status, event.Meta.Type)
	}
	return Handle{EventID: event.Meta.ID}, nil
}
