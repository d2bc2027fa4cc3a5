// Package domainerrors provides coded errors for domain and service layers.
// Handlers translate codes into HTTP status and response envelopes; services
// and models construct them at validation and policy boundaries.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport-level translation.
type Code string

const (
	// CodeInvalidInput: request input failed syntactic validation.
	CodeInvalidInput Code = "invalid_input"
	// CodeRateLimited: caller exceeded the per-key request frequency policy.
	CodeRateLimited Code = "rate_limited"
	// CodeForbidden: request understood but refused by policy.
	CodeForbidden Code = "forbidden"
	// CodeUnauthorized: request completed but the caller was not accepted.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound: referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeUnavailable: a dependency is temporarily unavailable.
	CodeUnavailable Code = "unavailable"
	// CodeInvariantViolation: internal consistency rule broken; a bug, not bad input.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal: unexpected internal fault.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. The message is safe to surface to clients
// for non-internal codes; wrapped causes stay server-side.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a coded error with a client-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a coded error so the chain stays inspectable
// with errors.Is/As while the client only ever sees the message.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors so unknown faults never leak detail.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
