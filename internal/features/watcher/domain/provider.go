package domain

import (
	"context"

	dispatchdomain "node-health-watcher/internal/features/dispatch/domain"
)

// Dispatcher delivers a flush payload to all configured sinks; implemented by
// the dispatch gateway.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload dispatchdomain.Payload) dispatchdomain.Summary
}

// Provider exposes the watcher to the API layer
type Provider interface {
	// Status returns a point-in-time view of the store and pending sets
	Status() Status
}
