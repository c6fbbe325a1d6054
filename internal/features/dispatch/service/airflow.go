package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"node-health-watcher/cmd/app"
	"node-health-watcher/internal/common"
	"node-health-watcher/internal/features/dispatch/domain"
)

// AirflowSink triggers a DAG run per flush. It is the primary automation
// endpoint and retries with bounded exponential backoff before giving up.
type AirflowSink struct {
	cfg            app.AirflowConfig
	client         domain.HTTPClient
	logger         *slog.Logger
	initialBackoff time.Duration
}

// AirflowSinkOption configures an AirflowSink
type AirflowSinkOption func(*AirflowSink)

// WithInitialBackoff overrides the first retry sleep; tests compress it
func WithInitialBackoff(d time.Duration) AirflowSinkOption {
	return func(s *AirflowSink) {
		s.initialBackoff = d
	}
}

// NewAirflowSink creates the DAG-trigger sink
func NewAirflowSink(cfg *app.AirflowConfig, client domain.HTTPClient, logger *slog.Logger, options ...AirflowSinkOption) *AirflowSink {
	sink := &AirflowSink{
		cfg:            *cfg,
		client:         client,
		logger:         logger,
		initialBackoff: time.Second,
	}

	for _, option := range options {
		option(sink)
	}

	return sink
}

// Name identifies the sink in logs and metrics
func (s *AirflowSink) Name() string { return "airflow" }

// Enabled reports whether the full credential set is configured
func (s *AirflowSink) Enabled() bool {
	return s.cfg.BaseURL != "" && s.cfg.Username != "" && s.cfg.Password != ""
}

// Trigger posts the payload as a DAG run conf. Every attempt that does not
// return a 2xx counts as failed; the sink sleeps min(2^(k-1), 30s) after
// attempt k and gives up after MaxRetries attempts.
func (s *AirflowSink) Trigger(ctx context.Context, payload domain.Payload) domain.Outcome {
	if !s.Enabled() {
		s.logger.Info("airflow_trigger_skipped_missing_config", slog.Any("payload", payload))
		return domain.Outcome{Kind: domain.OutcomeSkipped}
	}

	url := fmt.Sprintf("%s/api/v1/dags/%s/dagRuns", s.cfg.BaseURL, s.cfg.DAGID)

	body, err := json.Marshal(map[string]interface{}{"conf": payload})
	if err != nil {
		s.logger.Error("airflow_trigger_failed", slog.String("error", err.Error()), slog.Any("payload", payload))
		return domain.Outcome{Kind: domain.OutcomeFailed, Err: err}
	}

	headers := map[string]string{
		"Authorization": basicAuthHeader(s.cfg.Username, s.cfg.Password),
	}

	attempt := 0
	operation := func() error {
		attempt++

		resp, err := s.client.Request(ctx, http.MethodPost, url, body, headers)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		respBody, _ := s.client.ReadResponseBody(resp)
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.logger.Info("airflow_triggered",
				slog.Int("attempt", attempt),
				slog.Int("status_code", resp.StatusCode),
				slog.String("url", url),
			)
			return nil
		}

		return common.NewNonSuccessStatusError(resp.StatusCode, string(respBody))
	}

	notify := func(err error, sleep time.Duration) {
		s.logger.Warn("airflow_trigger_retry",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.cfg.MaxRetries),
			slog.Float64("sleep_seconds", sleep.Seconds()),
			slog.String("error", err.Error()),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(s.retryPolicy(), ctx), notify); err != nil {
		s.logger.Error("airflow_trigger_failed",
			slog.String("error", err.Error()),
			slog.Any("payload", payload),
		)
		return domain.Outcome{Kind: domain.OutcomeFailed, Err: err}
	}

	return domain.Outcome{Kind: domain.OutcomeDelivered}
}

// retryPolicy returns the deterministic schedule: sleeps double from the
// initial interval and cap at 30s, with MaxRetries attempts in total.
func (s *AirflowSink) retryPolicy() backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = s.initialBackoff
	expo.RandomizationFactor = 0
	expo.Multiplier = 2
	expo.MaxInterval = 30 * time.Second
	expo.MaxElapsedTime = 0
	return backoff.WithMaxRetries(expo, uint64(s.cfg.MaxRetries-1))
}

// basicAuthHeader builds the Authorization header value for basic auth
func basicAuthHeader(username, password string) string {
	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return "Basic " + credentials
}
