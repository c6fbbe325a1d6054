package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err, "Defaults alone should produce a valid configuration")

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "pi-k3s", cfg.Cluster.Name)

	assert.Equal(t, 5, cfg.Watch.DebounceSeconds)
	assert.Equal(t, int64(30), cfg.Watch.TimeoutSeconds)
	assert.Equal(t, 2*time.Second, cfg.Watch.ReconnectDelay)

	assert.Equal(t, "", cfg.Airflow.BaseURL, "Airflow sink is disabled by default")
	assert.Equal(t, "node_health_alert", cfg.Airflow.DAGID)
	assert.Equal(t, 10, cfg.Airflow.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Airflow.MaxRetries)

	assert.Equal(t, "", cfg.GHA.DispatchURL, "GitHub sink is disabled by default")
	assert.Equal(t, "k3s-node-alert", cfg.GHA.EventType)

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CLUSTER_NAME", "lab-cluster")
	t.Setenv("WATCH_DEBOUNCE_SECONDS", "12")
	t.Setenv("AIRFLOW_USERNAME", "airflow")
	t.Setenv("AIRFLOW_PASSWORD", "secret")
	t.Setenv("AIRFLOW_MAX_RETRIES", "3")
	t.Setenv("GHA_EVENT_TYPE", "lab-node-alert")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "lab-cluster", cfg.Cluster.Name)
	assert.Equal(t, 12, cfg.Watch.DebounceSeconds)
	assert.Equal(t, "airflow", cfg.Airflow.Username)
	assert.Equal(t, "secret", cfg.Airflow.Password)
	assert.Equal(t, 3, cfg.Airflow.MaxRetries)
	assert.Equal(t, "lab-node-alert", cfg.GHA.EventType)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_TrimsAirflowBaseURL(t *testing.T) {
	t.Setenv("AIRFLOW_BASE_URL", "http://airflow.local:8080/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://airflow.local:8080", cfg.Airflow.BaseURL,
		"Trailing slashes are stripped so URL joins stay clean")
}

func TestLoad_TrimsGHAFields(t *testing.T) {
	t.Setenv("GHA_DISPATCH_URL", "  https://api.github.com/repos/o/r/dispatches  ")
	t.Setenv("GHA_TOKEN", " token-value ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com/repos/o/r/dispatches", cfg.GHA.DispatchURL)
	assert.Equal(t, "token-value", cfg.GHA.Token)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"zero debounce", "WATCH_DEBOUNCE_SECONDS", "0"},
		{"negative debounce", "WATCH_DEBOUNCE_SECONDS", "-1"},
		{"zero watch timeout", "WATCH_TIMEOUT_SECONDS", "0"},
		{"zero retries", "AIRFLOW_MAX_RETRIES", "0"},
		{"zero airflow timeout", "AIRFLOW_TIMEOUT_SECONDS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
