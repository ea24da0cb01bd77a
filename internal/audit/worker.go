package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and hands them to a sink.
// Sink failures are logged and skipped; the trail is best-effort.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "append audit event",
					"action", event.Action,
					"award_uid", event.AwardUID,
					"error", err.Error(),
				)
			}
		}
	}
}
