package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

// DefaultKey is the Redis list shared with the legacy producers.
const DefaultKey = "fila:cobrancas"

// ChargeQueue is a durable FIFO of pending charges over a shared list store.
//
// Ordering: LPush inserts at the head, RPop removes at the tail, so the
// oldest push is popped first across all producers. Each operation is atomic
// on its own; a push issued concurrently with a pop does not get combined
// transactional guarantees.
type ChargeQueue struct {
	store ListStore
	key   string
}

func New(store ListStore, key string) *ChargeQueue {
	if key == "" {
		key = DefaultKey
	}
	return &ChargeQueue{store: store, key: key}
}

// Push appends the item to the queue tail. A store failure surfaces as
// domain.ErrQueueUnavailable with nothing enqueued, so the caller can retry
// or report the outage.
func (q *ChargeQueue) Push(ctx context.Context, it Item) error {
	if it.EnqueuedAt.IsZero() {
		it.EnqueuedAt = time.Now()
	}
	data, err := it.Encode()
	if err != nil {
		return err
	}
	if err := q.store.LPush(ctx, q.key, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	return nil
}

// Pop removes and returns the oldest item. Returns domain.ErrQueueEmpty
// when there is nothing pending; it never blocks waiting for work. Store
// failures surface as domain.ErrQueueUnavailable.
func (q *ChargeQueue) Pop(ctx context.Context) (Item, error) {
	data, err := q.store.RPop(ctx, q.key)
	if errors.Is(err, domain.ErrQueueEmpty) {
		return Item{}, err
	}
	if err != nil {
		return Item{}, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	return Decode(data)
}

// Depth returns the number of items currently waiting.
func (q *ChargeQueue) Depth(ctx context.Context) (int64, error) {
	return q.store.Len(ctx, q.key)
}
