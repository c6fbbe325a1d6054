package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"node-health-watcher/cmd/app"
	"node-health-watcher/internal/common"
	adapterhttp "node-health-watcher/internal/features/dispatch/adapter/http"
	"node-health-watcher/internal/features/dispatch/domain"
)

func testLogger() *slog.Logger {
	return common.NewLogger(common.LoggerConfig{Level: common.ErrorLevel, Output: io.Discard})
}

func testHTTPClient(t *testing.T) domain.HTTPClient {
	t.Helper()

	config := adapterhttp.DefaultClientConfig()
	config.Timeout = 2 * time.Second
	config.EnableHTTP2 = false

	client, err := adapterhttp.NewClient(config)
	require.NoError(t, err, "Creating test HTTP client should not fail")
	return client
}

func testPayload() domain.Payload {
	return domain.Payload{
		Cluster:          "pi-k3s",
		Event:            domain.EventIncident,
		Status:           domain.StatusNodeDown,
		NodesDown:        "n2",
		NodesDownCurrent: "n2",
		Timestamp:        "2026-08-25T10:00:00Z",
		NodesTable:       "node\tready_status\nn1\tTrue\nn2\tFalse",
	}
}

func airflowConfig(baseURL string, maxRetries int) app.AirflowConfig {
	return app.AirflowConfig{
		BaseURL:        baseURL,
		DAGID:          "node_health_alert",
		Username:       "airflow",
		Password:       "secret",
		TimeoutSeconds: 2,
		MaxRetries:     maxRetries,
	}
}

func TestAirflowSink_SkippedWhenNotConfigured(t *testing.T) {
	cfg := airflowConfig("", 5)
	sink := NewAirflowSink(&cfg, testHTTPClient(t), testLogger())

	assert.False(t, sink.Enabled(), "Sink without base URL should be disabled")

	outcome := sink.Trigger(context.Background(), testPayload())
	assert.Equal(t, domain.OutcomeSkipped, outcome.Kind, "Disabled sink should report a skip")

	// Partial credentials still disable the sink
	cfg = airflowConfig("http://localhost:9999", 5)
	cfg.Password = ""
	sink = NewAirflowSink(&cfg, testHTTPClient(t), testLogger())
	assert.False(t, sink.Enabled(), "Sink without password should be disabled")
}

func TestAirflowSink_TriggerSuccess(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody map[string]domain.Payload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody), "Request body should be valid JSON")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := airflowConfig(server.URL, 5)
	sink := NewAirflowSink(&cfg, testHTTPClient(t), testLogger())

	outcome := sink.Trigger(context.Background(), testPayload())

	assert.Equal(t, domain.OutcomeDelivered, outcome.Kind, "2xx response should deliver")
	assert.Equal(t, "/api/v1/dags/node_health_alert/dagRuns", gotPath, "DAG run endpoint should be used")
	assert.Equal(t, "airflow", gotUser, "Basic auth username should be sent")
	assert.Equal(t, "secret", gotPass, "Basic auth password should be sent")
	assert.Equal(t, "pi-k3s", gotBody["conf"].Cluster, "Payload should be wrapped as dag run conf")
	assert.Equal(t, "n2", gotBody["conf"].NodesDown, "Pending-down list should be carried")
}

func TestAirflowSink_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	cfg := airflowConfig(server.URL, 5)
	sink := NewAirflowSink(&cfg, testHTTPClient(t), testLogger(), WithInitialBackoff(time.Millisecond))

	outcome := sink.Trigger(context.Background(), testPayload())

	assert.Equal(t, domain.OutcomeDelivered, outcome.Kind, "Sink should deliver after transient failures")
	assert.Equal(t, 3, attempts, "Sink should have stopped retrying on first success")
}

func TestAirflowSink_ExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := airflowConfig(server.URL, 4)
	sink := NewAirflowSink(&cfg, testHTTPClient(t), testLogger(), WithInitialBackoff(time.Millisecond))

	outcome := sink.Trigger(context.Background(), testPayload())

	assert.Equal(t, domain.OutcomeFailed, outcome.Kind, "Permanent failure should exhaust retries")
	assert.Equal(t, 4, attempts, "Sink should make exactly MaxRetries attempts")
	assert.True(t, common.IsNonSuccessStatus(outcome.Err), "Failure should carry the non-success status")
}

func TestAirflowSink_TransportErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	cfg := airflowConfig(server.URL, 2)
	sink := NewAirflowSink(&cfg, testHTTPClient(t), testLogger(), WithInitialBackoff(time.Millisecond))

	outcome := sink.Trigger(context.Background(), testPayload())
	assert.Equal(t, domain.OutcomeFailed, outcome.Kind, "Transport errors should count as failed attempts")
	assert.Error(t, outcome.Err, "Failure should carry the transport error")
}

func TestAirflowSink_RetrySchedule(t *testing.T) {
	cfg := airflowConfig("http://localhost:9999", 7)
	sink := NewAirflowSink(&cfg, testHTTPClient(t), testLogger())

	policy := sink.retryPolicy()

	// Sleep after attempt k is min(2^(k-1), 30s); 7 attempts mean 6 sleeps.
	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
	}
	for i, want := range expected {
		assert.Equal(t, want, policy.NextBackOff(), "Sleep %d should follow the doubling-capped schedule", i+1)
	}
	assert.Equal(t, backoff.Stop, policy.NextBackOff(), "Schedule should stop after MaxRetries attempts")
}
