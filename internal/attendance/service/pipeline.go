// Package service orchestrates the attendance submission pipeline:
// validation, rate limiting, geofence enforcement, artifact staging,
// recognition, durable logging, and cleanup, in that fixed order, stopping at
// the first failing stage.
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"geomark/internal/attendance/metrics"
	"geomark/internal/attendance/models"
	"geomark/internal/attendance/store"
	"geomark/internal/audit"
	"geomark/internal/geo"
	"geomark/internal/platform/middleware"
	"geomark/internal/recognition"
	"geomark/internal/staging"
)

// RateLimiter reports whether a submission for key is blocked (true = blocked).
type RateLimiter interface {
	Admit(ctx context.Context, key string, now time.Time) bool
}

// Stager persists an upload to a temporary location for recognition.
type Stager interface {
	Stage(ctx context.Context, r io.Reader, originalName string, timestamp int64) (*staging.Handle, error)
}

// Config fixes the geofence and acceptance policy.
type Config struct {
	RefLat              float64
	RefLon              float64
	RadiusMeters        float64
	ConfidenceThreshold float64
}

// Pipeline sequences the submission stages. Every outcome maps to either a
// Result or a SubmissionError; nothing here is fatal to the process.
type Pipeline struct {
	cfg        Config
	limiter    RateLimiter
	stager     Stager
	recognizer recognition.Recognizer
	records    store.Store
	logger     *slog.Logger
	tracer     trace.Tracer

	metrics *metrics.Metrics
	auditor *audit.Publisher
	clock   func() time.Time
}

type Option func(*Pipeline)

// WithMetrics enables submission metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithAudit enables audit event emission.
func WithAudit(publisher *audit.Publisher) Option {
	return func(p *Pipeline) {
		p.auditor = publisher
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

func New(
	cfg Config,
	limiter RateLimiter,
	stager Stager,
	recognizer recognition.Recognizer,
	records store.Store,
	logger *slog.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		limiter:    limiter,
		stager:     stager,
		recognizer: recognizer,
		records:    records,
		logger:     logger,
		tracer:     otel.Tracer("geomark/attendance"),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// VerifyLocation computes the distance from the reference point and whether
// it falls inside the allowed radius.
func (p *Pipeline) VerifyLocation(lat, lon float64) (distance float64, allowed bool) {
	distance = geo.Distance(p.cfg.RefLat, p.cfg.RefLon, lat, lon)
	return distance, distance <= p.cfg.RadiusMeters
}

// Recent returns the most recent attendance records, newest first.
func (p *Pipeline) Recent(ctx context.Context, limit int) ([]models.Record, error) {
	return p.records.Recent(ctx, limit)
}

// Submit runs one attendance attempt through the pipeline. The photo reader
// is only consumed after validation, rate limiting, and the geofence check
// have all passed.
func (p *Pipeline) Submit(ctx context.Context, raw models.RawSubmission, photo io.Reader) (*models.Result, *models.SubmissionError) {
	ctx, span := p.tracer.Start(ctx, "pipeline.submit")
	defer span.End()

	now := p.clock()

	sub, failure := models.ParseSubmission(raw, now)
	if failure != nil {
		return nil, p.fail(ctx, failure)
	}

	if sub.ClientKey != "" && p.limiter.Admit(ctx, sub.ClientKey, now) {
		p.emit(ctx, audit.Event{Action: audit.ActionRateLimitExceeded})
		return nil, p.fail(ctx, models.Failure(models.ReasonRateLimited))
	}

	distance, inside := p.VerifyLocation(sub.Latitude, sub.Longitude)
	if p.metrics != nil {
		p.metrics.ObserveDistance(distance)
	}
	if !inside {
		p.logger.InfoContext(ctx, "outside radius attempt",
			"distance_m", distance,
			"client_key", sub.ClientKey,
		)
		p.emit(ctx, audit.Event{Action: audit.ActionOutsideRadius, Distance: distance})
		return nil, p.fail(ctx, models.Failure(models.ReasonOutsideRadius).WithDistance(distance))
	}

	handle, err := p.stageArtifact(ctx, photo, sub.Filename, now.Unix())
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to stage upload", "error", err)
		return nil, p.fail(ctx, models.Failure(models.ReasonSaveFailed).WithCause(err))
	}
	// The staged artifact never outlives the attempt, whatever the outcome.
	defer handle.Remove()

	result, err := p.recognize(ctx, handle.Path)
	if err != nil {
		p.logger.ErrorContext(ctx, "recognition error", "error", err)
		p.emit(ctx, audit.Event{Action: audit.ActionRecognitionFailed})
		return nil, p.fail(ctx, models.Failure(models.ReasonRecognitionError).WithCause(err))
	}

	record := &models.Record{
		Timestamp:      now.Unix(),
		Latitude:       sub.Latitude,
		Longitude:      sub.Longitude,
		Distance:       distance,
		Confidence:     result.Confidence,
		StagedFilename: handle.Filename,
	}

	accepted := result.Identity != nil && result.Confidence >= p.cfg.ConfidenceThreshold
	if accepted {
		record.UserID = result.Identity
	}

	recordID, err := p.appendRecord(ctx, record)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to write attendance record", "error", err)
		return nil, p.fail(ctx, models.Failure(models.ReasonDBError).WithCause(err))
	}

	if !accepted {
		p.emit(ctx, audit.Event{
			Action:     audit.ActionAttendanceRejected,
			Reason:     string(models.ReasonNotRecognized),
			Distance:   distance,
			Confidence: result.Confidence,
		})
		return nil, p.fail(ctx, models.Failure(models.ReasonNotRecognized).WithConfidence(result.Confidence))
	}

	p.logger.InfoContext(ctx, "attendance marked",
		"user_id", *result.Identity,
		"distance_m", distance,
		"confidence", result.Confidence,
	)
	p.emit(ctx, audit.Event{
		Action:     audit.ActionAttendanceMarked,
		Subject:    *result.Identity,
		Distance:   distance,
		Confidence: result.Confidence,
	})
	if p.metrics != nil {
		p.metrics.ObserveSubmission("success")
	}

	return &models.Result{
		RecordID:   recordID,
		UserID:     *result.Identity,
		Confidence: result.Confidence,
		Distance:   distance,
	}, nil
}

func (p *Pipeline) stageArtifact(ctx context.Context, photo io.Reader, filename string, ts int64) (*staging.Handle, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.stage")
	defer span.End()
	return p.stager.Stage(ctx, photo, filename, ts)
}

func (p *Pipeline) recognize(ctx context.Context, path string) (recognition.Result, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.recognize")
	defer span.End()

	start := p.clock()
	result, err := p.recognizer.Recognize(ctx, path)
	if p.metrics != nil {
		p.metrics.ObserveRecognition(time.Since(start))
	}
	return result, err
}

func (p *Pipeline) appendRecord(ctx context.Context, record *models.Record) (int64, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.append")
	defer span.End()
	return p.records.Append(ctx, record)
}

// fail counts the outcome and returns the failure unchanged.
func (p *Pipeline) fail(_ context.Context, failure *models.SubmissionError) *models.SubmissionError {
	if p.metrics != nil {
		p.metrics.ObserveSubmission(string(failure.Reason))
	}
	return failure
}

// emit attaches request metadata from the context and publishes the event.
func (p *Pipeline) emit(ctx context.Context, event audit.Event) {
	if p.auditor == nil {
		return
	}
	agent := middleware.GetClientAgent(ctx)
	event.RequestID = middleware.GetRequestID(ctx)
	event.ClientIP = middleware.GetClientIP(ctx)
	event.ClientBrowser = agent.Browser
	event.ClientOS = agent.OS
	p.auditor.Emit(ctx, event)
}
