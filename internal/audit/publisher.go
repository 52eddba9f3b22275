package audit

import (
	"context"
	"log/slog"

	"trustledger/pkg/requestcontext"
)

// Publisher hands events to the background worker through a buffered channel.
// Emission is best-effort: a full buffer drops the event with a warning rather
// than failing or blocking the ledger operation that produced it.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher creates a publisher with the given buffer size and the channel
// the worker will drain.
func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the receive side of the channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit enqueues an event, stamping the request-scoped time and correlation ID
// when the caller left them empty.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, event dropped",
				"action", event.Action,
				"actor", event.Actor,
			)
		}
	}
}
