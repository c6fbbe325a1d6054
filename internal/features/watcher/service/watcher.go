package service

import (
	"context"
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"

	"node-health-watcher/internal/common"
	wdomain "node-health-watcher/internal/features/watcher/domain"
)

// Config holds the watch loop settings
type Config struct {
	// Cluster names the watched cluster in payloads and records
	Cluster string

	// WatchTimeoutSeconds is the server-side timeout of one watch connection
	WatchTimeoutSeconds int64

	// ReconnectDelay is the fixed pause after a failed stream
	ReconnectDelay time.Duration
}

// Service drives the pipeline: it primes the store, consumes the node watch
// stream, and feeds every event through classify, aggregate and flush-check.
// Processing is strictly sequential; dispatch calls block the loop.
type Service struct {
	cfg        Config
	client     kubernetes.Interface
	store      *Store
	aggregator *Aggregator
	builder    *PayloadBuilder
	gateway    wdomain.Dispatcher
	metrics    *MetricsCollector
	logger     *slog.Logger
}

// NewService creates the watch loop service
func NewService(
	cfg Config,
	client kubernetes.Interface,
	aggregator *Aggregator,
	gateway wdomain.Dispatcher,
	metrics *MetricsCollector,
	logger *slog.Logger,
) *Service {
	if client == nil {
		panic("kubernetes client cannot be nil")
	}
	if gateway == nil {
		panic("dispatch gateway cannot be nil")
	}

	return &Service{
		cfg:        cfg,
		client:     client,
		store:      NewStore(),
		aggregator: aggregator,
		builder:    NewPayloadBuilder(cfg.Cluster),
		gateway:    gateway,
		metrics:    metrics,
		logger:     logger,
	}
}

// Prime lists all nodes once and populates the store fully. No transition
// logic runs here, so a restart never produces spurious incidents. A failure
// is fatal to startup.
func (s *Service) Prime(ctx context.Context) error {
	nodes, err := s.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return common.WatchStreamError("failed to list nodes: %v", err)
	}

	for i := range nodes.Items {
		node := &nodes.Items[i]
		s.store.Set(node.Name, wdomain.ReadyStatus(node))
	}

	s.observeStore()
	s.logger.Info("initial_state_loaded", slog.Int("nodes", len(nodes.Items)))
	return nil
}

// Run consumes the node watch stream until the context is canceled. Each
// outer iteration opens a fresh bounded-timeout watch connection and attempts
// a flush first, so a pending deadline is honored even during idle windows.
func (s *Service) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		s.FlushIfDue(ctx, false)

		if err := s.watchOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("watch_stream_error", slog.String("error", err.Error()))
			s.pause(ctx)
		}
	}
}

// watchOnce opens one watch connection and drains it. A normal server-side
// timeout ends with a nil error and the outer loop reconnects immediately.
func (s *Service) watchOnce(ctx context.Context) error {
	timeout := s.cfg.WatchTimeoutSeconds
	stream, err := s.client.CoreV1().Nodes().Watch(ctx, metav1.ListOptions{TimeoutSeconds: &timeout})
	if err != nil {
		return common.WatchStreamError("failed to open node watch: %v", err)
	}
	defer stream.Stop()

	for event := range stream.ResultChan() {
		if event.Type == watch.Error {
			return common.WatchStreamError("watch error event: %v", event.Object)
		}

		node, ok := event.Object.(*corev1.Node)
		if !ok {
			continue
		}

		if event.Type == watch.Deleted {
			s.store.Delete(node.Name)
			s.observeStore()
			s.logger.Info("node_deleted", slog.String("node", node.Name))
			continue
		}

		s.handleUpdate(node)
		s.FlushIfDue(ctx, false)
	}

	return nil
}

// handleUpdate records the node's status and classifies the change. First
// observations record state without triggering a transition; only changes
// from a known prior state are actionable.
func (s *Service) handleUpdate(node *corev1.Node) {
	name := node.Name
	current := wdomain.ReadyStatus(node)

	previous, known := s.store.Status(name)
	s.store.Set(name, current)
	s.observeStore()

	if !known {
		s.logger.Info("node_first_observed",
			slog.String("node", name),
			slog.String("status", current),
		)
		return
	}

	if previous == current {
		return
	}

	transition := Classify(previous, current)
	if !transition.Actionable() {
		s.logger.Info("node_state_changed_non_actionable",
			slog.String("node", name),
			slog.String("previous", previous),
			slog.String("current", current),
		)
		return
	}

	s.aggregator.Record(name, transition)
	s.metrics.ObserveTransition(transition.String())

	down, recovered := s.aggregator.Pending()
	s.logger.Info("node_transition_detected",
		slog.String("transition", transition.String()),
		slog.String("node", name),
		slog.String("previous", previous),
		slog.String("current", current),
		slog.Any("pending_down", down),
		slog.Any("pending_recovered", recovered),
	)
}

// FlushIfDue builds and dispatches the debounced record when the deadline has
// passed (or force is set), then unconditionally resets the aggregation
// state. Dispatch failures are logged in the summary but never replayed.
func (s *Service) FlushIfDue(ctx context.Context, force bool) {
	if s.aggregator.Empty() {
		return
	}
	if !force && !s.aggregator.Due() {
		return
	}

	down, recovered := s.aggregator.Pending()
	payload := s.builder.Build(down, recovered, s.store)

	summary := s.gateway.Dispatch(ctx, payload)
	s.metrics.ObserveFlush(payload.Event, summary)

	s.logger.Info("flush_dispatched",
		slog.Bool("airflow_ok", summary.Airflow.Delivered()),
		slog.Bool("github_dispatch_ok", summary.GitHub.Delivered()),
		slog.Any("payload", payload),
	)

	s.aggregator.Reset()
}

// Status returns a point-in-time view for the status API
func (s *Service) Status() wdomain.Status {
	down, recovered := s.aggregator.Pending()

	status := wdomain.Status{
		Cluster:          s.cfg.Cluster,
		Nodes:            s.store.Len(),
		NodesDown:        s.store.CurrentlyDown(),
		PendingDown:      down,
		PendingRecovered: recovered,
	}

	if deadline, armed := s.aggregator.Deadline(); armed {
		status.FlushDeadline = deadline.UTC().Format(common.TimestampFormat)
	}

	return status
}

// observeStore refreshes the node gauges
func (s *Service) observeStore() {
	if s.metrics != nil {
		s.metrics.ObserveStore(s.store.Len(), len(s.store.CurrentlyDown()))
	}
}

// pause sleeps the fixed reconnect delay, returning early on cancellation
func (s *Service) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(s.cfg.ReconnectDelay):
	}
}
