package service

import (
	"node-health-watcher/internal/features/watcher/domain"
)

// Classify decides whether a readiness change is actionable and of which
// kind. "True" is the single safe/unsafe boundary; only transitions crossing
// it move nodes into the pending sets.
func Classify(previous, current string) domain.Transition {
	switch {
	case previous == current:
		return domain.TransitionNone
	case previous == domain.StatusReady && current != domain.StatusReady:
		return domain.TransitionNonReady
	case previous != domain.StatusReady && current == domain.StatusReady:
		return domain.TransitionRecovered
	default:
		return domain.TransitionNonActionable
	}
}
