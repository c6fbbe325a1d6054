package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"node-health-watcher/cmd/app"
	adapterhttp "node-health-watcher/internal/features/dispatch/adapter/http"
	"node-health-watcher/internal/features/dispatch/service"
)

// NewGateway wires the HTTP client and both sinks from configuration
func NewGateway(cfg *app.Config, logger *slog.Logger) (*service.Gateway, error) {
	clientConfig := adapterhttp.DefaultClientConfig()
	clientConfig.Timeout = time.Duration(cfg.Airflow.TimeoutSeconds) * time.Second

	httpClient, err := adapterhttp.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch HTTP client: %w", err)
	}

	airflow := service.NewAirflowSink(&cfg.Airflow, httpClient, logger)
	github := service.NewGithubSink(&cfg.GHA, httpClient, logger)

	return service.NewGateway(airflow, github), nil
}
