package domain

import (
	corev1 "k8s.io/api/core/v1"
)

// Readiness status values as reported by the node's Ready condition
const (
	StatusReady    = "True"
	StatusNotReady = "False"
	StatusUnknown  = "Unknown"
)

// Transition classifies a readiness status change. Only changes crossing the
// "True" boundary are actionable.
type Transition int

const (
	// TransitionNone means the status did not change
	TransitionNone Transition = iota

	// TransitionNonReady means the node left the ready state
	TransitionNonReady

	// TransitionRecovered means the node returned to the ready state
	TransitionRecovered

	// TransitionNonActionable means the status changed without crossing the
	// ready boundary (e.g. False to Unknown)
	TransitionNonActionable
)

// Actionable reports whether the transition affects the pending sets
func (t Transition) Actionable() bool {
	return t == TransitionNonReady || t == TransitionRecovered
}

// String returns the log label of the transition
func (t Transition) String() string {
	switch t {
	case TransitionNonReady:
		return "node_became_non_ready"
	case TransitionRecovered:
		return "node_became_ready"
	case TransitionNonActionable:
		return "non_actionable"
	default:
		return "none"
	}
}

// ReadyStatus extracts the node's Ready condition status, or "Unknown" when
// the condition is absent.
func ReadyStatus(node *corev1.Node) string {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady {
			if condition.Status == "" {
				return StatusUnknown
			}
			return string(condition.Status)
		}
	}
	return StatusUnknown
}

// Status is a point-in-time view of the watcher exposed by the status API
type Status struct {
	Cluster          string   `json:"cluster"`
	Nodes            int      `json:"nodes"`
	NodesDown        []string `json:"nodesDown"`
	PendingDown      []string `json:"pendingDown"`
	PendingRecovered []string `json:"pendingRecovered"`
	FlushDeadline    string   `json:"flushDeadline,omitempty"`
}
