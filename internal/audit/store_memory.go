package audit

import (
	"context"
	"sync"
)

// InMemoryStore holds the audit trail in process memory, bounded to the most
// recent maxEvents entries.
type InMemoryStore struct {
	mu        sync.RWMutex
	events    []Event
	maxEvents int
}

// NewInMemoryStore creates a bounded in-memory audit sink.
func NewInMemoryStore(maxEvents int) *InMemoryStore {
	if maxEvents <= 0 {
		maxEvents = 1000
	}
	return &InMemoryStore{maxEvents: maxEvents}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
	return nil
}

// ListRecent returns the most recent limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
