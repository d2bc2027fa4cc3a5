// Package service applies the per-client submission frequency policy.
package service

import (
	"context"
	"log/slog"
	"time"

	"geomark/internal/ratelimit/metrics"
)

// Store performs the atomic per-key check-and-update. Implementations must
// guarantee that two racing calls for the same key inside the window cannot
// both be admitted; calls for different keys must not contend.
type Store interface {
	Admit(ctx context.Context, key string, now time.Time, window time.Duration) (bool, error)
}

// Service enforces the minimum elapsed time between accepted submissions from
// one client key. Keys the store has never seen are always admitted.
type Service struct {
	store   Store
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, window time.Duration, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{store: store, window: window, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Admit reports whether the submission for key is blocked (true = blocked).
// A store failure admits the request: rate limiting is protective, not
// load-bearing, so it fails open and records the fault.
func (s *Service) Admit(ctx context.Context, key string, now time.Time) bool {
	admitted, err := s.store.Admit(ctx, key, now, s.window)
	if err != nil {
		s.logger.ErrorContext(ctx, "rate limiter store failure, admitting", "error", err, "key", key)
		if s.metrics != nil {
			s.metrics.IncrementStoreFailures()
		}
		return false
	}
	if !admitted && s.metrics != nil {
		s.metrics.IncrementBlocked()
	}
	return !admitted
}

// Window returns the configured rate window.
func (s *Service) Window() time.Duration {
	return s.window
}
