package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("nil publisher records nothing", func(t *testing.T) {
		var p *Publisher
		// Must not panic.
		p.Emit(ctx, Event{Action: ActionAwardCreated})
	})

	t.Run("stamps missing timestamps", func(t *testing.T) {
		p := NewPublisher(discardLogger())
		p.Emit(ctx, Event{Action: ActionAwardCreated, AwardUID: "uid-1"})

		got := <-p.Events()
		assert.False(t, got.Timestamp.IsZero())
	})

	t.Run("keeps caller timestamps", func(t *testing.T) {
		p := NewPublisher(discardLogger())
		stamped := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		p.Emit(ctx, Event{Action: ActionAwardRevoked, Timestamp: stamped})

		got := <-p.Events()
		assert.Equal(t, stamped, got.Timestamp)
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		p := NewPublisher(discardLogger())
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 1000; i++ {
				p.Emit(ctx, Event{Action: ActionAwardCreated})
			}
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Emit blocked on a full buffer")
		}
	})
}

func TestWorker(t *testing.T) {
	t.Run("forwards events to the sink", func(t *testing.T) {
		p := NewPublisher(discardLogger())
		sink := NewMemorySink()
		worker := NewWorker(sink, p.Events(), discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = worker.Run(ctx) }()

		p.Emit(ctx, Event{Action: ActionAwardCreated, AwardUID: "uid-1", BadgeSlug: "python-master"})

		require.Eventually(t, func() bool {
			return len(sink.Events()) == 1
		}, time.Second, 10*time.Millisecond)

		got := sink.Events()[0]
		assert.Equal(t, ActionAwardCreated, got.Action)
		assert.Equal(t, "uid-1", got.AwardUID)
		assert.Equal(t, "python-master", got.BadgeSlug)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		p := NewPublisher(discardLogger())
		worker := NewWorker(NewMemorySink(), p.Events(), discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := worker.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
