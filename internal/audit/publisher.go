package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink receives audit events for persistence or forwarding.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher hands events to the worker queue. Emission is non-blocking: when
// the queue is full the event is dropped and counted in the log rather than
// stalling a live submission.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

// NewPublisher creates a publisher writing into the worker inbox.
func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

// Emit queues an event, stamping ID and timestamp when absent.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event", "action", event.Action)
	}
}
