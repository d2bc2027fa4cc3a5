package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the inbox and hands them to the sink. It
// keeps background processing testable without wiring queue implementations
// into the pipeline.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run processes events until the context is canceled. A sink failure is
// logged and the worker keeps going: losing one audit event must never stop
// the trail.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit sink append failed", "action", event.Action, "error", err)
			}
		}
	}
}
