package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type queueReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (q *queueReader) Fetch(ctx context.Context) (kafka.Message, error) {
	for {
		q.mu.Lock()
		if len(q.queue) > 0 {
			m := q.queue[0]
			q.queue = q.queue[1:]
			q.mu.Unlock()
			return m, nil
		}
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (q *queueReader) Commit(ctx context.Context, msgs ...kafka.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, m := range msgs {
		q.committed = append(q.committed, m.Offset)
	}
	return nil
}

func (q *queueReader) Committed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.committed)
}

type flakyRefresher struct {
	mu    sync.Mutex
	calls int
	fail  map[int]bool
}

func (f *flakyRefresher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *flakyRefresher) RefreshOnce(ctx context.Context, trigger string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[f.calls] {
		return errors.New("feed unavailable")
	}
	return nil
}

type memoryDLQ struct {
	mu       sync.Mutex
	messages [][]byte
}

func (d *memoryDLQ) Publish(ctx context.Context, key, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, value)
	return nil
}

func (d *memoryDLQ) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

func events() []kafka.Message {
	return []kafka.Message{
		{Offset: 1, Value: []byte(`{"type":"reservation.created","reservationId":"r-1"}`)},
		{Offset: 2, Value: []byte(`garbage`)},
		{Offset: 3, Value: []byte(`{"type":"reservation.cancelled","reservationId":"r-2"}`)},
	}
}

func runUntilCommitted(t *testing.T, l *EventListener, reader *queueReader, want int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return reader.Committed() == want }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestEventListenerCoalescesBurst(t *testing.T) {
	reader := &queueReader{queue: events()}
	ref := &flakyRefresher{}
	dlq := &memoryDLQ{}
	l := NewEventListener(zap.NewNop(), ref, reader, dlq, 10)
	l.window = 20 * time.Millisecond

	runUntilCommitted(t, l, reader, 3)
	assert.Equal(t, 1, ref.Calls(), "waiting events share one refresh")
	assert.Equal(t, 0, dlq.Len())
}

func TestEventListenerForwardsFailedBatchToDLQ(t *testing.T) {
	reader := &queueReader{queue: events()}
	ref := &flakyRefresher{fail: map[int]bool{1: true}}
	dlq := &memoryDLQ{}
	l := NewEventListener(zap.NewNop(), ref, reader, dlq, 10)
	l.window = 20 * time.Millisecond

	runUntilCommitted(t, l, reader, 3)
	assert.Equal(t, 3, dlq.Len())
}

func TestEventListenerRespectsBatchSize(t *testing.T) {
	reader := &queueReader{queue: events()}
	ref := &flakyRefresher{fail: map[int]bool{2: true}}
	dlq := &memoryDLQ{}
	l := NewEventListener(zap.NewNop(), ref, reader, dlq, 1)
	l.window = 5 * time.Millisecond

	runUntilCommitted(t, l, reader, 3)
	assert.Equal(t, 3, ref.Calls())
	assert.Equal(t, 1, dlq.Len())
}
