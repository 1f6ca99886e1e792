package events

import (
	"context"
	"log/slog"
)

// Worker drains an event inbox into a publisher on a background goroutine,
// decoupling request handling from broker latency. Events are dropped with
// a log line when the inbox is full; the stream is advisory, not a ledger.
type Worker struct {
	publisher Publisher
	inbox     chan Event
	logger    *slog.Logger
}

func NewWorker(publisher Publisher, logger *slog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	return &Worker{
		publisher: publisher,
		inbox:     make(chan Event, buffer),
		logger:    logger,
	}
}

// Publish enqueues an event without blocking the caller.
func (w *Worker) Publish(_ context.Context, event Event) error {
	select {
	case w.inbox <- event:
	default:
		w.logger.Warn("event inbox full, dropping event",
			"kind", event.Kind,
			"action", event.Action,
		)
	}
	return nil
}

// Run consumes the inbox until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "event delivery failed",
					"kind", event.Kind,
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
