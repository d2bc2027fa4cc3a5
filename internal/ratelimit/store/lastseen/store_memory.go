// Package lastseen persists the last-accepted submission time per client key.
package lastseen

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements Store with a mutex-guarded map. Suitable for a
// single instance; use the Redis store for distributed deployments.
//
// Entries are never evicted: the key space is bounded by the client
// population and each entry is a single timestamp.
type InMemoryStore struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewInMemoryStore creates an empty in-memory last-seen store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lastSeen: make(map[string]time.Time)}
}

// Admit atomically performs the check-and-update for key: admitted when no
// accepted request exists within the window, in which case the stored time
// advances to now. A denied request leaves the stored time unchanged, so a
// burst cannot push the window forward.
func (s *InMemoryStore) Admit(_ context.Context, key string, now time.Time, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.lastSeen[key]; ok && now.Sub(prev) < window {
		return false, nil
	}
	s.lastSeen[key] = now
	return true, nil
}
