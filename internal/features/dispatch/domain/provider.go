package domain

import (
	"context"
	"net/http"
)

// Sink delivers a flush payload to one external automation endpoint.
// A disabled sink reports the skip itself and returns OutcomeSkipped.
type Sink interface {
	// Name identifies the sink in logs and metrics
	Name() string

	// Enabled reports whether the sink's full credential set is configured
	Enabled() bool

	// Trigger delivers the payload, applying the sink's own retry policy.
	// It never returns an error; failures are folded into the Outcome.
	Trigger(ctx context.Context, payload Payload) Outcome
}

// HTTPClient is the transport used by sinks; implemented by adapter/http.Client
type HTTPClient interface {
	Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error)
	ReadResponseBody(resp *http.Response) ([]byte, error)
}
