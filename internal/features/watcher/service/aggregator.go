package service

import (
	"sort"
	"sync"
	"time"

	"node-health-watcher/internal/features/watcher/domain"
)

// Aggregator coalesces actionable transitions inside one debounce window so a
// reboot storm produces a single dispatch instead of one per flap.
//
// The deadline is sticky: set when the first actionable transition arrives,
// never postponed by later transitions, cleared only by Reset. The pending
// sets stay disjoint; recording a node in one set removes it from the other.
type Aggregator struct {
	mu               sync.RWMutex
	pendingDown      map[string]struct{}
	pendingRecovered map[string]struct{}
	deadline         time.Time
	window           time.Duration
	now              func() time.Time
}

// NewAggregator creates a debounce aggregator with the given window
func NewAggregator(window time.Duration) *Aggregator {
	return &Aggregator{
		pendingDown:      make(map[string]struct{}),
		pendingRecovered: make(map[string]struct{}),
		window:           window,
		now:              time.Now,
	}
}

// Record applies an actionable transition to the pending sets and arms the
// flush deadline if it is not already set. Non-actionable transitions are
// ignored.
func (a *Aggregator) Record(node string, transition domain.Transition) {
	if !transition.Actionable() {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch transition {
	case domain.TransitionNonReady:
		a.pendingDown[node] = struct{}{}
		delete(a.pendingRecovered, node)
	case domain.TransitionRecovered:
		a.pendingRecovered[node] = struct{}{}
		delete(a.pendingDown, node)
	}

	if a.deadline.IsZero() {
		a.deadline = a.now().Add(a.window)
	}
}

// Empty reports whether both pending sets are empty
func (a *Aggregator) Empty() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.pendingDown) == 0 && len(a.pendingRecovered) == 0
}

// Due reports whether the flush deadline has passed. An empty aggregator is
// never due; Empty is checked first by the flush path.
func (a *Aggregator) Due() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return !a.deadline.IsZero() && !a.now().Before(a.deadline)
}

// Pending returns sorted copies of both pending sets
func (a *Aggregator) Pending() (down, recovered []string) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return sortedKeys(a.pendingDown), sortedKeys(a.pendingRecovered)
}

// Deadline returns the flush deadline and whether one is armed
func (a *Aggregator) Deadline() (time.Time, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.deadline, !a.deadline.IsZero()
}

// Reset clears both pending sets and the deadline. Called unconditionally
// after a flush; dispatch failures are never replayed.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pendingDown = make(map[string]struct{})
	a.pendingRecovered = make(map[string]struct{})
	a.deadline = time.Time{}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
