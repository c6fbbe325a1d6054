package service

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	dispatchdomain "node-health-watcher/internal/features/dispatch/domain"
)

// MetricsCollector manages Prometheus metrics for the watcher
type MetricsCollector struct {
	transitionCounter *prometheus.CounterVec
	flushCounter      *prometheus.CounterVec
	dispatchCounter   *prometheus.CounterVec
	nodesTracked      prometheus.Gauge
	nodesDown         prometheus.Gauge
	registered        bool
	mu                sync.Mutex
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		transitionCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "node_health_transitions_total",
				Help: "Count of actionable node readiness transitions by kind",
			},
			[]string{"transition"},
		),
		flushCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "node_health_flushes_total",
				Help: "Count of debounce flushes by event kind",
			},
			[]string{"event"},
		),
		dispatchCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "node_health_dispatch_results_total",
				Help: "Count of sink dispatch outcomes by sink and result",
			},
			[]string{"sink", "outcome"},
		),
		nodesTracked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "node_health_nodes_tracked",
				Help: "Number of nodes currently tracked in the state store",
			},
		),
		nodesDown: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "node_health_nodes_down",
				Help: "Number of tracked nodes whose readiness is not True",
			},
		),
	}
}

// Register registers metrics with Prometheus
func (m *MetricsCollector) Register() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return
	}

	prometheus.MustRegister(m.transitionCounter)
	prometheus.MustRegister(m.flushCounter)
	prometheus.MustRegister(m.dispatchCounter)
	prometheus.MustRegister(m.nodesTracked)
	prometheus.MustRegister(m.nodesDown)

	m.registered = true
}

// ObserveTransition counts an actionable transition
func (m *MetricsCollector) ObserveTransition(transition string) {
	m.transitionCounter.WithLabelValues(transition).Inc()
}

// ObserveFlush counts a flush and its per-sink outcomes
func (m *MetricsCollector) ObserveFlush(event string, summary dispatchdomain.Summary) {
	m.flushCounter.WithLabelValues(event).Inc()
	m.dispatchCounter.WithLabelValues("airflow", string(summary.Airflow.Kind)).Inc()
	m.dispatchCounter.WithLabelValues("github_dispatch", string(summary.GitHub.Kind)).Inc()
}

// ObserveStore updates the node gauges from the current store state
func (m *MetricsCollector) ObserveStore(tracked, down int) {
	m.nodesTracked.Set(float64(tracked))
	m.nodesDown.Set(float64(down))
}
