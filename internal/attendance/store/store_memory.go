package store

import (
	"context"
	"sync"

	"geomark/internal/attendance/models"
)

// InMemoryStore keeps the record log in process memory. Suitable for a single
// instance and for tests; use the Postgres store for durable deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.Record
	nextID  int64
}

// NewInMemoryStore creates an empty in-memory attendance log.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

// Append validates the record, assigns its ID under the write lock so IDs
// stay monotonic, and stores a copy. Readers never observe a partial record.
func (s *InMemoryStore) Append(_ context.Context, record *models.Record) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.ID = s.nextID
	s.nextID++
	s.records = append(s.records, stored)

	record.ID = stored.ID
	return stored.ID, nil
}

// Recent returns up to limit records, newest first.
func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]models.Record, error) {
	limit = clampLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > n {
		limit = n
	}

	out := make([]models.Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Len reports the number of logged records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
