package models

import (
	"strings"
	"time"

	dErrors "geomark/pkg/domain-errors"
)

// allowedExtensions is the set of accepted photo file extensions, decided by
// the substring after the final dot, case-insensitive.
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

// AllowedPhotoName reports whether a filename carries an accepted extension.
func AllowedPhotoName(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// RawSubmission is the unvalidated form input of an attendance attempt.
// Nil coordinate pointers mean the field was absent from the request.
type RawSubmission struct {
	Latitude  *string
	Longitude *string
	Filename  string
	HasPhoto  bool
	ClientKey string
}

// Submission is a validated attendance attempt ready for the pipeline.
type Submission struct {
	Latitude   float64
	Longitude  float64
	Filename   string
	ClientKey  string
	ReceivedAt time.Time
}

// ParseSubmission validates raw form input into a Submission.
// Validation is purely syntactic: coordinates must parse as floats and the
// photo must be present with an accepted extension. File contents are not read.
func ParseSubmission(raw RawSubmission, now time.Time) (*Submission, *SubmissionError) {
	if raw.Latitude == nil || raw.Longitude == nil {
		return nil, Failure(ReasonMissingCoords)
	}

	lat, okLat := ParseCoordinate(*raw.Latitude)
	lon, okLon := ParseCoordinate(*raw.Longitude)
	if !okLat || !okLon {
		return nil, Failure(ReasonInvalidCoords)
	}

	if !raw.HasPhoto || raw.Filename == "" {
		return nil, Failure(ReasonMissingPhoto)
	}
	if !AllowedPhotoName(raw.Filename) {
		return nil, Failure(ReasonBadFileType)
	}

	return &Submission{
		Latitude:   lat,
		Longitude:  lon,
		Filename:   raw.Filename,
		ClientKey:  raw.ClientKey,
		ReceivedAt: now,
	}, nil
}

// Record is one attendance attempt, successful or not. Records are immutable
// once appended; there is no update or delete path.
// JSON field names match the persisted column names.
type Record struct {
	ID             int64   `json:"id"`
	UserID         *string `json:"user_id"`
	Timestamp      int64   `json:"timestamp"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Distance       float64 `json:"distance"`
	Confidence     float64 `json:"confidence"`
	StagedFilename string  `json:"raw_filename"`
}

// Validate enforces record invariants before a store accepts the append.
// The identity/threshold invariant is guaranteed by the pipeline decision, so
// only value bounds are checked here.
func (r *Record) Validate() error {
	if r.Distance < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "distance cannot be negative")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "confidence must be in [0,1]")
	}
	if r.Timestamp <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "timestamp must be set")
	}
	return nil
}

// Result is a successfully logged, accepted submission.
type Result struct {
	RecordID   int64
	UserID     string
	Confidence float64
	Distance   float64
}
