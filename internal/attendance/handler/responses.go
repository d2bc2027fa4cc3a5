package handler

import (
	"net/http"

	"geomark/internal/attendance/models"
	"geomark/pkg/platform/httputil"
)

const markedMessage = "Attendance marked successfully."

const insideRadiusMessage = "You are inside the college radius. You may proceed."

// verifyResponse is the envelope for POST /verify_location.
type verifyResponse struct {
	Allowed  bool     `json:"allowed"`
	Reason   string   `json:"reason,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Message  string   `json:"message"`
}

// markResponse is the success envelope for POST /mark_attendance.
type markResponse struct {
	Success    bool    `json:"success"`
	UserID     string  `json:"user_id"`
	Confidence float64 `json:"confidence"`
	Distance   float64 `json:"distance"`
	Message    string  `json:"message"`
}

// failureResponse is the envelope shared by every submission failure.
// Distance and Confidence appear only when the rejecting stage computed
// them; Error carries a diagnostic string for server-side faults.
type failureResponse struct {
	Success    bool     `json:"success"`
	Reason     string   `json:"reason"`
	Message    string   `json:"message"`
	Distance   *float64 `json:"distance,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type recordsResponse struct {
	Records []models.Record `json:"records"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeFailure translates a pipeline failure into its JSON envelope and
// status code. Internal causes are exposed only as a diagnostic string, the
// way server-side faults report their underlying error.
func writeFailure(w http.ResponseWriter, failure *models.SubmissionError) {
	status := httputil.StatusForCode(failure.Code())
	body := failureResponse{
		Reason:     string(failure.Reason),
		Message:    failure.Message,
		Distance:   failure.Distance,
		Confidence: failure.Confidence,
	}
	if failure.Err != nil && status == http.StatusInternalServerError {
		body.Error = failure.Err.Error()
	}
	httputil.WriteJSON(w, status, body)
}
