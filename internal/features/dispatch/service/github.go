package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"node-health-watcher/cmd/app"
	"node-health-watcher/internal/common"
	"node-health-watcher/internal/features/dispatch/domain"
)

// GithubSink fires a repository_dispatch event per flush. It is best-effort:
// a single attempt, no retry.
type GithubSink struct {
	cfg    app.GHAConfig
	client domain.HTTPClient
	logger *slog.Logger
}

// NewGithubSink creates the repository_dispatch sink
func NewGithubSink(cfg *app.GHAConfig, client domain.HTTPClient, logger *slog.Logger) *GithubSink {
	return &GithubSink{
		cfg:    *cfg,
		client: client,
		logger: logger,
	}
}

// Name identifies the sink in logs and metrics
func (s *GithubSink) Name() string { return "github_dispatch" }

// Enabled reports whether the full credential set is configured
func (s *GithubSink) Enabled() bool {
	return s.cfg.DispatchURL != "" && s.cfg.Token != ""
}

// Trigger posts the payload wrapped as a client_payload under the configured
// event type. Any non-2xx response or transport error fails immediately.
func (s *GithubSink) Trigger(ctx context.Context, payload domain.Payload) domain.Outcome {
	if !s.Enabled() {
		s.logger.Info("github_dispatch_skipped_missing_config", slog.Any("payload", payload))
		return domain.Outcome{Kind: domain.OutcomeSkipped}
	}

	body, err := json.Marshal(map[string]interface{}{
		"event_type":     s.cfg.EventType,
		"client_payload": payload,
	})
	if err != nil {
		s.logger.Error("github_dispatch_error",
			slog.String("error", err.Error()),
			slog.String("url", s.cfg.DispatchURL),
		)
		return domain.Outcome{Kind: domain.OutcomeFailed, Err: err}
	}

	headers := map[string]string{
		"Accept":        "application/vnd.github+json",
		"Authorization": "token " + s.cfg.Token,
	}

	resp, err := s.client.Request(ctx, http.MethodPost, s.cfg.DispatchURL, body, headers)
	if err != nil {
		s.logger.Error("github_dispatch_error",
			slog.String("error", err.Error()),
			slog.String("url", s.cfg.DispatchURL),
		)
		return domain.Outcome{Kind: domain.OutcomeFailed, Err: err}
	}

	respBody, _ := s.client.ReadResponseBody(resp)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.logger.Info("github_dispatch_triggered",
			slog.Int("status_code", resp.StatusCode),
			slog.String("url", s.cfg.DispatchURL),
			slog.String("event_type", s.cfg.EventType),
		)
		return domain.Outcome{Kind: domain.OutcomeDelivered}
	}

	statusErr := common.NewNonSuccessStatusError(resp.StatusCode, string(respBody))
	s.logger.Error("github_dispatch_failed",
		slog.Int("status_code", resp.StatusCode),
		slog.String("response", truncate(string(respBody), 500)),
		slog.String("url", s.cfg.DispatchURL),
	)
	return domain.Outcome{Kind: domain.OutcomeFailed, Err: statusErr}
}

// truncate bounds response bodies carried into log records
func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
