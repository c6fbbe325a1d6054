package service

import (
	"sort"
	"strings"
	"sync"

	"node-health-watcher/internal/features/watcher/domain"
)

// Store is the authoritative in-memory map of node name to readiness status.
// The watch loop is the only writer; the RWMutex exists because the status
// API reads snapshots from the HTTP goroutine.
type Store struct {
	mu     sync.RWMutex
	states map[string]string
}

// NewStore creates an empty node state store
func NewStore() *Store {
	return &Store{
		states: make(map[string]string),
	}
}

// Status returns the recorded readiness of a node and whether it is known
func (s *Store) Status(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.states[name]
	return status, ok
}

// Set records the readiness status of a node
func (s *Store) Set(name, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[name] = status
}

// Delete removes a node; deleted nodes are excluded from all future payloads
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, name)
}

// Len returns the number of tracked nodes
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.states)
}

// CurrentlyDown returns the sorted names of every node whose recorded status
// is not "True". This is ground truth recomputed from the store, independent
// of any pending set.
func (s *Store) CurrentlyDown() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	down := make([]string, 0)
	for name, status := range s.states {
		if status != domain.StatusReady {
			down = append(down, name)
		}
	}
	sort.Strings(down)
	return down
}

// Table renders the full store as tab-separated name/status rows under a
// header line, sorted by node name.
func (s *Store) Table() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.states))
	for name := range s.states {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names)+1)
	lines = append(lines, "node\tready_status")
	for _, name := range names {
		lines = append(lines, name+"\t"+s.states[name])
	}
	return strings.Join(lines, "\n")
}
