package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Submissions         *prometheus.CounterVec
	RecognitionDuration prometheus.Histogram
	GeofenceDistance    prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geomark_submissions_total",
			Help: "Total attendance submissions by outcome",
		}, []string{"outcome"}),
		RecognitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "geomark_recognition_duration_seconds",
			Help:    "Latency of recognition gateway calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		GeofenceDistance: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "geomark_geofence_distance_meters",
			Help:    "Computed distance from the reference point per submission",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}
}

func (m *Metrics) ObserveSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRecognition(d time.Duration) {
	m.RecognitionDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveDistance(meters float64) {
	m.GeofenceDistance.Observe(meters)
}
