package worker

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/samirwankhede/hotel-insights/internal/kafka"
	"github.com/samirwankhede/hotel-insights/internal/service/refresher"
)

// batchWindow is how long the listener waits for further events before
// refreshing for the ones it already holds.
const batchWindow = 250 * time.Millisecond

// Refresher is triggered once per batch of reservation events.
type Refresher interface {
	RefreshOnce(ctx context.Context, trigger string) error
}

// MessageReader is the consumer side of the reservation events topic.
type MessageReader interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher receives messages that could not be handled.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// EventListener refreshes the dashboard when reservation change events
// arrive. Events that are already waiting are coalesced into one refresh.
type EventListener struct {
	log       *zap.Logger
	refresher Refresher
	c         MessageReader
	dlq       Publisher
	maxBatch  int
	window    time.Duration
}

func NewEventListener(log *zap.Logger, refresher Refresher, c MessageReader, dlq Publisher, maxBatch int) *EventListener {
	if maxBatch < 1 {
		maxBatch = 1
	}
	return &EventListener{
		log:       log,
		refresher: refresher,
		c:         c,
		dlq:       dlq,
		maxBatch:  maxBatch,
		window:    batchWindow,
	}
}

func (l *EventListener) Run(ctx context.Context) error {
	for {
		m, err := l.c.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			l.log.Error("failed to read message", zap.Error(err))
			continue
		}

		l.handleBatch(ctx, l.drain(ctx, m))
	}
}

// drain collects messages that arrive within the batch window after first.
func (l *EventListener) drain(ctx context.Context, first kafka.Message) []kafka.Message {
	batch := []kafka.Message{first}
	for len(batch) < l.maxBatch {
		wctx, cancel := context.WithTimeout(ctx, l.window)
		m, err := l.c.Fetch(wctx)
		cancel()
		if err != nil {
			break
		}
		batch = append(batch, m)
	}
	return batch
}

func (l *EventListener) handleBatch(ctx context.Context, batch []kafka.Message) {
	for _, m := range batch {
		env, err := kafkax.ParseEnvelope(m.Value)
		if err != nil {
			l.log.Warn("reservation event is not JSON, refreshing anyway", zap.Error(err), zap.Int64("offset", m.Offset))
			continue
		}
		l.log.Debug("reservation event",
			zap.String("type", env.Type),
			zap.String("reservation_id", env.ReservationID))
	}

	if err := l.refresher.RefreshOnce(ctx, refresher.TriggerEvent); err != nil {
		if ctx.Err() != nil {
			// Left uncommitted; redelivered after restart.
			return
		}
		l.log.Error("failed to handle events", zap.Error(err), zap.Int("events", len(batch)))
		// Send to DLQ for manual inspection
		for _, m := range batch {
			if err := l.dlq.Publish(ctx, m.Key, m.Value); err != nil {
				l.log.Error("failed to forward message to DLQ", zap.Error(err))
				return
			}
		}
	}
	if err := l.c.Commit(ctx, batch...); err != nil {
		l.log.Error("failed to commit messages", zap.Error(err), zap.Int("events", len(batch)))
	}
}
