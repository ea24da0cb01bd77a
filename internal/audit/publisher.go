package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher hands audit events to a background worker over a buffered
// channel. Emission is best-effort: the award and revocation paths must not
// fail or stall because the audit trail is slow, so a full buffer drops the
// event with a log line. Image baking is the opposite case and stays
// synchronous.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, 256),
		logger: logger,
	}
}

// Emit queues an event. A nil publisher records nothing, which keeps test
// wiring small.
func (p *Publisher) Emit(_ context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event",
			"action", event.Action,
			"award_uid", event.AwardUID,
		)
	}
}

// Events exposes the inbox for the worker.
func (p *Publisher) Events() <-chan Event {
	return p.inbox
}
