package service

import (
	"context"

	"node-health-watcher/internal/features/dispatch/domain"
)

// Gateway fans a flush payload out to both sinks. The sinks are independent:
// both are always attempted and neither outcome affects the other, no
// rollback, no cross-sink coordination.
type Gateway struct {
	airflow domain.Sink
	github  domain.Sink
}

// NewGateway creates a dispatch gateway over the two sinks
func NewGateway(airflow, github domain.Sink) *Gateway {
	if airflow == nil {
		panic("airflow sink cannot be nil")
	}
	if github == nil {
		panic("github sink cannot be nil")
	}

	return &Gateway{
		airflow: airflow,
		github:  github,
	}
}

// Dispatch delivers the payload to both sinks in order and reports their
// outcomes. Dispatch itself never fails; failures live in the Summary.
func (g *Gateway) Dispatch(ctx context.Context, payload domain.Payload) domain.Summary {
	return domain.Summary{
		Airflow: g.airflow.Trigger(ctx, payload),
		GitHub:  g.github.Trigger(ctx, payload),
	}
}
