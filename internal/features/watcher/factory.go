package watcher

import (
	"log/slog"
	"time"

	"k8s.io/client-go/kubernetes"

	"node-health-watcher/cmd/app"
	"node-health-watcher/internal/features/watcher/domain"
	"node-health-watcher/internal/features/watcher/service"
)

// NewService wires the store, aggregator and watch loop from configuration
func NewService(
	cfg *app.Config,
	client kubernetes.Interface,
	gateway domain.Dispatcher,
	metrics *service.MetricsCollector,
	logger *slog.Logger,
) *service.Service {
	window := time.Duration(cfg.Watch.DebounceSeconds) * time.Second

	return service.NewService(
		service.Config{
			Cluster:             cfg.Cluster.Name,
			WatchTimeoutSeconds: cfg.Watch.TimeoutSeconds,
			ReconnectDelay:      cfg.Watch.ReconnectDelay,
		},
		client,
		service.NewAggregator(window),
		gateway,
		metrics,
		logger,
	)
}
