package service

import (
	"strings"

	"node-health-watcher/internal/common"
	dispatchdomain "node-health-watcher/internal/features/dispatch/domain"
)

// PayloadBuilder renders aggregator and store state into a dispatchable
// record. A payload is built fresh on each flush and never persisted.
type PayloadBuilder struct {
	cluster string
}

// NewPayloadBuilder creates a payload builder for the named cluster
func NewPayloadBuilder(cluster string) *PayloadBuilder {
	return &PayloadBuilder{cluster: cluster}
}

// Build assembles the flush payload. The down and recovered lists come from
// the aggregator's pending sets; the currently-down list is recomputed live
// from the store and is unaffected by debouncing. The caller guarantees the
// pending sets are not both empty.
func (b *PayloadBuilder) Build(down, recovered []string, store *Store) dispatchdomain.Payload {
	event, status := classifyFlush(down, recovered)

	return dispatchdomain.Payload{
		Cluster:          b.cluster,
		Event:            event,
		Status:           status,
		NodesDown:        strings.Join(down, ","),
		NodesDownCurrent: strings.Join(store.CurrentlyDown(), ","),
		NodesRecovered:   strings.Join(recovered, ","),
		Timestamp:        common.UTCTimestamp(),
		NodesTable:       store.Table(),
	}
}

// classifyFlush maps the pending sets onto the event kind and its mirrored
// status label
func classifyFlush(down, recovered []string) (event, status string) {
	switch {
	case len(down) > 0 && len(recovered) > 0:
		return dispatchdomain.EventMixed, dispatchdomain.StatusNodeChange
	case len(down) > 0:
		return dispatchdomain.EventIncident, dispatchdomain.StatusNodeDown
	default:
		return dispatchdomain.EventResolved, dispatchdomain.StatusNodeRecovered
	}
}
