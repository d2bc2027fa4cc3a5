package models

import (
	"fmt"

	dErrors "geomark/pkg/domain-errors"
)

// FailReason identifies the pipeline stage outcome that rejected a submission.
// These values appear verbatim in the `reason` field of failure responses.
type FailReason string

const (
	ReasonMissingCoords    FailReason = "missing_coords"
	ReasonInvalidCoords    FailReason = "invalid_coords"
	ReasonMissingPhoto     FailReason = "missing_photo"
	ReasonBadFileType      FailReason = "bad_file_type"
	ReasonRateLimited      FailReason = "rate_limited"
	ReasonOutsideRadius    FailReason = "outside_radius"
	ReasonSaveFailed       FailReason = "save_failed"
	ReasonRecognitionError FailReason = "recognition_error"
	ReasonNotRecognized    FailReason = "not_recognized"
	ReasonDBError          FailReason = "db_error"
)

// OutsideRadiusMessage is the fixed human-readable geofence rejection text.
const OutsideRadiusMessage = "You are outside the radius of college, so go to college and mark your attendance."

// messageByReason gives each reason its canonical human-readable message.
var messageByReason = map[FailReason]string{
	ReasonMissingCoords:    "Missing coordinates.",
	ReasonInvalidCoords:    "Invalid coordinates.",
	ReasonMissingPhoto:     "No photo uploaded.",
	ReasonBadFileType:      "Unsupported file type.",
	ReasonRateLimited:      "Too many requests. Slow down.",
	ReasonOutsideRadius:    OutsideRadiusMessage,
	ReasonSaveFailed:       "Failed to save uploaded file.",
	ReasonRecognitionError: "Recognition failed.",
	ReasonNotRecognized:    "Face not recognized. Please try again.",
	ReasonDBError:          "Failed to write attendance to DB.",
}

// codeByReason maps each failure reason onto the domain error code that
// decides its HTTP status.
var codeByReason = map[FailReason]dErrors.Code{
	ReasonMissingCoords:    dErrors.CodeInvalidInput,
	ReasonInvalidCoords:    dErrors.CodeInvalidInput,
	ReasonMissingPhoto:     dErrors.CodeInvalidInput,
	ReasonBadFileType:      dErrors.CodeInvalidInput,
	ReasonRateLimited:      dErrors.CodeRateLimited,
	ReasonOutsideRadius:    dErrors.CodeForbidden,
	ReasonSaveFailed:       dErrors.CodeInternal,
	ReasonRecognitionError: dErrors.CodeInternal,
	ReasonNotRecognized:    dErrors.CodeUnauthorized,
	ReasonDBError:          dErrors.CodeInternal,
}

// SubmissionError is the pipeline's explicit failure result. Every stage
// failure is translated into one of these; internal causes stay wrapped and
// never reach the response body beyond an optional diagnostic string.
type SubmissionError struct {
	Reason  FailReason
	Message string

	// Context fields carried into the failure envelope when set.
	Distance   *float64
	Confidence *float64

	Err error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Code returns the domain error code for HTTP translation.
func (e *SubmissionError) Code() dErrors.Code {
	if code, ok := codeByReason[e.Reason]; ok {
		return code
	}
	return dErrors.CodeInternal
}

// Failure builds a SubmissionError with the canonical message for a reason.
func Failure(reason FailReason) *SubmissionError {
	return &SubmissionError{Reason: reason, Message: messageByReason[reason]}
}

// WithDistance attaches the computed geofence distance to the failure.
func (e *SubmissionError) WithDistance(distance float64) *SubmissionError {
	e.Distance = &distance
	return e
}

// WithConfidence attaches the recognition confidence to the failure.
func (e *SubmissionError) WithConfidence(confidence float64) *SubmissionError {
	e.Confidence = &confidence
	return e
}

// WithCause attaches the underlying error for server-side logging.
func (e *SubmissionError) WithCause(err error) *SubmissionError {
	e.Err = err
	return e
}
