package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper implements the http.RoundTripper interface for testing
type mockRoundTripper struct {
	response *http.Response
	err      error
	lastReq  *http.Request
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	return m.response, m.err
}

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultClientConfig()

	assert.Equal(t, 10*time.Second, config.Timeout, "Default timeout should be 10 seconds")
	assert.False(t, config.InsecureSkipVerify, "InsecureSkipVerify should be false by default")
	assert.True(t, config.EnableHTTP2, "EnableHTTP2 should be true by default")
}

func TestNewClient(t *testing.T) {
	config := DefaultClientConfig()
	client, err := NewClient(config)

	require.NoError(t, err, "Creating client with default config should not fail")
	assert.NotNil(t, client, "Client should not be nil")
	assert.NotNil(t, client.client, "HTTP client should not be nil")

	customConfig := ClientConfig{
		Timeout:            5 * time.Second,
		InsecureSkipVerify: true,
		EnableHTTP2:        false,
	}
	customClient, err := NewClient(customConfig)

	require.NoError(t, err, "Creating client with custom config should not fail")
	assert.NotNil(t, customClient, "Client should not be nil")
	assert.Equal(t, customConfig, customClient.config, "Client should store the provided config")
}

func TestRequest(t *testing.T) {
	mockResp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(`{"status":"success"}`)),
	}

	transport := &mockRoundTripper{response: mockResp}
	client := &Client{
		client: &http.Client{Transport: transport},
		config: DefaultClientConfig(),
	}

	resp, err := client.Request(
		context.Background(),
		http.MethodPost,
		"https://example.com/api",
		[]byte(`{"key":"value"}`),
		map[string]string{"X-API-Key": "test-key"},
	)

	require.NoError(t, err, "Request should not return an error")
	assert.Equal(t, mockResp, resp, "Response should match mock response")
	assert.Equal(t, "test-key", transport.lastReq.Header.Get("X-API-Key"), "Custom header should be set")
	assert.Equal(t, "application/json", transport.lastReq.Header.Get("Content-Type"),
		"Content-Type should default to application/json")

	// Explicit Content-Type wins over the default
	_, err = client.Request(
		context.Background(),
		http.MethodPost,
		"https://example.com/api",
		[]byte("a=b"),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)

	require.NoError(t, err, "Request with explicit Content-Type should not fail")
	assert.Equal(t, "application/x-www-form-urlencoded", transport.lastReq.Header.Get("Content-Type"),
		"Explicit Content-Type should be preserved")
}

func TestReadResponseBody(t *testing.T) {
	expectedBody := `{"status":"success"}`
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(expectedBody)),
	}

	client := &Client{
		client: &http.Client{},
		config: DefaultClientConfig(),
	}

	body, err := client.ReadResponseBody(resp)

	require.NoError(t, err, "ReadResponseBody should not return an error")
	assert.Equal(t, []byte(expectedBody), body, "Body should match expected content")

	_, err = client.ReadResponseBody(nil)
	assert.Error(t, err, "ReadResponseBody should return an error for nil response")
}
