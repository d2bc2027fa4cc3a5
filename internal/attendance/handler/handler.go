// Package handler wires the attendance HTTP endpoints to the submission
// pipeline. Handlers own the HTTP concerns only: parsing, envelope shaping,
// and status mapping; all policy lives in the pipeline.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"geomark/internal/attendance/models"
	"geomark/internal/attendance/store"
	"geomark/internal/platform/middleware"
	"geomark/pkg/platform/httputil"
)

// Service defines the pipeline operations the handlers need.
type Service interface {
	VerifyLocation(lat, lon float64) (distance float64, allowed bool)
	Submit(ctx context.Context, raw models.RawSubmission, photo io.Reader) (*models.Result, *models.SubmissionError)
	Recent(ctx context.Context, limit int) ([]models.Record, error)
}

// Handler wires attendance endpoints to the submission pipeline.
type Handler struct {
	service        Service
	logger         *slog.Logger
	maxUploadBytes int64
}

// New constructs an attendance handler with its dependencies.
func New(service Service, logger *slog.Logger, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register mounts the attendance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleHealth)
	r.Post("/verify_location", h.HandleVerifyLocation)
	r.Post("/mark_attendance", h.HandleMarkAttendance)
	// Legacy route kept for clients that still call the old path.
	r.Post("/recognize_face", h.HandleMarkAttendance)
	r.Get("/attendance_records", h.HandleAttendanceRecords)
}

// HandleHealth handles GET / requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "Attendance server alive.",
	})
}

// HandleVerifyLocation handles POST /verify_location requests. Coordinates
// arrive as JSON and are accepted as either numbers or numeric strings.
func (h *Handler) HandleVerifyLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  any `json:"latitude"`
		Longitude any `json:"longitude"`
	}
	// A malformed body is treated the same as absent coordinates.
	_ = httputil.DecodeJSON(r, &req)

	if req.Latitude == nil || req.Longitude == nil {
		httputil.WriteJSON(w, http.StatusBadRequest, verifyResponse{
			Reason:  string(models.ReasonMissingCoords),
			Message: "Missing coordinates.",
		})
		return
	}

	lat, latOK := models.CoerceCoordinate(req.Latitude)
	lon, lonOK := models.CoerceCoordinate(req.Longitude)
	if !latOK || !lonOK {
		httputil.WriteJSON(w, http.StatusBadRequest, verifyResponse{
			Reason:  string(models.ReasonInvalidCoords),
			Message: "Invalid coordinates.",
		})
		return
	}

	distance, allowed := h.service.VerifyLocation(lat, lon)
	if !allowed {
		httputil.WriteJSON(w, http.StatusForbidden, verifyResponse{
			Reason:   string(models.ReasonOutsideRadius),
			Distance: &distance,
			Message:  models.OutsideRadiusMessage,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, verifyResponse{
		Allowed:  true,
		Distance: &distance,
		Message:  insideRadiusMessage,
	})
}

// HandleMarkAttendance handles POST /mark_attendance requests. The body is a
// multipart form with latitude, longitude, and a photo file; the client key
// for rate limiting is the caller's IP.
func (h *Handler) HandleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, failureResponse{
				Reason:  "payload_too_large",
				Message: "Uploaded file is too large.",
			})
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			writeFailure(w, models.Failure(models.ReasonMissingPhoto))
			return
		}
	}

	clientKey := middleware.GetClientIP(ctx)
	if clientKey == "" {
		clientKey = middleware.ClientIPFromRequest(r)
	}

	raw := models.RawSubmission{ClientKey: clientKey}
	if vals := r.PostForm["latitude"]; len(vals) > 0 {
		raw.Latitude = &vals[0]
	}
	if vals := r.PostForm["longitude"]; len(vals) > 0 {
		raw.Longitude = &vals[0]
	}

	var photo io.Reader
	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		raw.HasPhoto = true
		raw.Filename = header.Filename
		photo = file
	}

	result, failure := h.service.Submit(ctx, raw, photo)
	if failure != nil {
		h.logger.InfoContext(ctx, "submission rejected",
			"request_id", middleware.GetRequestID(ctx),
			"reason", failure.Reason,
			"client_key", clientKey,
		)
		writeFailure(w, failure)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, markResponse{
		Success:    true,
		UserID:     result.UserID,
		Confidence: result.Confidence,
		Distance:   result.Distance,
		Message:    markedMessage,
	})
}

// HandleAttendanceRecords handles GET /attendance_records requests.
func (h *Handler) HandleAttendanceRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.Recent(ctx, store.MaxRecentRecords)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read attendance records",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		writeFailure(w, models.Failure(models.ReasonDBError).WithCause(err))
		return
	}
	if records == nil {
		records = []models.Record{}
	}

	httputil.WriteJSON(w, http.StatusOK, recordsResponse{Records: records})
}
