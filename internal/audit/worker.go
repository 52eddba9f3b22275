package audit

import (
	"context"
	"log/slog"
)

// Sink mirrors events to an external system (e.g. Kafka) after they are
// persisted locally. Sink failures are logged, never propagated: the local
// store is the source of truth.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel, persists them, and fans out to
// optional sinks. It keeps background processing testable without wiring
// queue implementations into domain code.
type Worker struct {
	store  Store
	sinks  []Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger, sinks ...Sink) *Worker {
	return &Worker{store: store, sinks: sinks, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				if w.logger != nil {
					w.logger.ErrorContext(ctx, "audit append failed",
						"action", event.Action,
						"error", err,
					)
				}
				continue
			}
			for _, sink := range w.sinks {
				if err := sink.Publish(ctx, event); err != nil && w.logger != nil {
					w.logger.WarnContext(ctx, "audit sink publish failed",
						"action", event.Action,
						"error", err,
					)
				}
			}
		}
	}
}
