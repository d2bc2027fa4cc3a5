// Package recognition defines the identity-recognition capability the
// submission pipeline depends on. The model itself is an external black box;
// this package only fixes its contract and provides client implementations.
package recognition

import "context"

// Result is the recognition outcome for one staged image. A nil Identity with
// Confidence 0.0 is the canonical "no match"; the pipeline treats it the same
// as any below-threshold match.
type Result struct {
	Identity   *string
	Confidence float64
}

//go:generate mockgen -source=recognition.go -destination=mocks/recognizer.go -package=mocks Recognizer

// Recognizer resolves a staged image file into an identity and confidence.
// Implementations must not be assumed to have latency bounds; callers pass a
// context for timeout control and surface any error as a recognition failure.
type Recognizer interface {
	Recognize(ctx context.Context, stagedPath string) (Result, error)
}

// NoMatch is the default Recognizer when no model endpoint is configured.
// Every image resolves to "no match".
type NoMatch struct{}

func (NoMatch) Recognize(context.Context, string) (Result, error) {
	return Result{Identity: nil, Confidence: 0.0}, nil
}

// Static returns a fixed result; intended for development and tests.
type Static struct {
	Identity   *string
	Confidence float64
}

func (s Static) Recognize(context.Context, string) (Result, error) {
	return Result{Identity: s.Identity, Confidence: s.Confidence}, nil
}
