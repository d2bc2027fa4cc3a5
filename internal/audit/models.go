// Package audit captures an append-only trail of notable submission events.
// Events are emitted from the pipeline, queued through a worker, and land in
// a pluggable sink (in-memory log or Kafka).
package audit

import "time"

// Action names the kind of event.
type Action string

const (
	ActionAttendanceMarked   Action = "attendance_marked"
	ActionAttendanceRejected Action = "attendance_rejected"
	ActionRateLimitExceeded  Action = "rate_limit_exceeded"
	ActionOutsideRadius      Action = "outside_radius_attempt"
	ActionRecognitionFailed  Action = "recognition_failed"
)

// Event is emitted from pipeline logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`

	// Subject is the recognized identity, when there is one.
	Subject string `json:"subject,omitempty"`
	// Reason carries the failure reason for rejection events.
	Reason string `json:"reason,omitempty"`

	Distance   float64 `json:"distance,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	// Request correlation and client metadata.
	RequestID     string `json:"request_id,omitempty"`
	ClientIP      string `json:"client_ip,omitempty"`
	ClientBrowser string `json:"client_browser,omitempty"`
	ClientOS      string `json:"client_os,omitempty"`
}
