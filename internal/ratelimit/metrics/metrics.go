package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SubmissionsBlocked prometheus.Counter
	StoreFailures      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SubmissionsBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "geomark_ratelimit_blocked_total",
			Help: "Total number of submissions blocked by the rate limiter",
		}),
		StoreFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "geomark_ratelimit_store_failures_total",
			Help: "Total number of rate limiter store errors (fail-open admissions)",
		}),
	}
}

func (m *Metrics) IncrementBlocked() {
	m.SubmissionsBlocked.Inc()
}

func (m *Metrics) IncrementStoreFailures() {
	m.StoreFailures.Inc()
}
