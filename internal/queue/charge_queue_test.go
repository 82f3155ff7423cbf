package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/queue"
)

func newQueue() (*queue.ChargeQueue, *queue.MemoryListStore) {
	store := queue.NewMemoryListStore()
	return queue.New(store, ""), store
}

func TestChargeQueue_FIFO(t *testing.T) {
	q, _ := newQueue()
	ctx := context.Background()

	if err := q.Push(ctx, queue.Item{CustomerID: "c1", DebtID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := q.Push(ctx, queue.Item{CustomerID: "c1", DebtID: "b"}); err != nil {
		t.Fatal(err)
	}

	first, err := q.Pop(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.DebtID != "a" {
		t.Fatalf("expected oldest item first, got debt %q", first.DebtID)
	}

	second, _ := q.Pop(ctx)
	if second.DebtID != "b" {
		t.Fatalf("expected debt b second, got %q", second.DebtID)
	}
}

func TestChargeQueue_PopEmpty(t *testing.T) {
	q, _ := newQueue()

	_, err := q.Pop(context.Background())
	if err != domain.ErrQueueEmpty {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}
}

func TestChargeQueue_PushStoreError(t *testing.T) {
	q, store := newQueue()
	store.PushErr = errors.New("connection refused")

	err := q.Push(context.Background(), queue.Item{CustomerID: "c1", DebtID: "d1"})
	if !errors.Is(err, domain.ErrQueueUnavailable) {
		t.Fatalf("expected ErrQueueUnavailable, got %v", err)
	}

	// Nothing may be half-enqueued after a failed push.
	store.PushErr = nil
	if _, err := q.Pop(context.Background()); err != domain.ErrQueueEmpty {
		t.Fatalf("expected empty queue after failed push, got %v", err)
	}
}

func TestChargeQueue_Depth(t *testing.T) {
	q, _ := newQueue()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = q.Push(ctx, queue.Item{CustomerID: "c1", DebtID: "d1"})
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 3 {
		t.Fatalf("expected depth=3, got %d", depth)
	}
}

func TestDecode_DefaultsAndVersioning(t *testing.T) {
	t.Run("missing attempts defaults to zero", func(t *testing.T) {
		it, err := queue.Decode([]byte(`{"v":1,"customerId":"c1","debtId":"d1","enqueuedAt":1700000000000}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if it.Attempts != 0 {
			t.Fatalf("expected attempts=0, got %d", it.Attempts)
		}
		if it.CustomerID != "c1" || it.DebtID != "d1" {
			t.Fatalf("unexpected item: %+v", it)
		}
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		_, err := queue.Decode([]byte(`{"v":2,"customerId":"c1","debtId":"d1","enqueuedAt":1,"futureField":true}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing ids rejected", func(t *testing.T) {
		if _, err := queue.Decode([]byte(`{"v":1,"enqueuedAt":1}`)); err == nil {
			t.Fatal("expected error for payload without ids")
		}
	})

	t.Run("round trip preserves fields", func(t *testing.T) {
		in := queue.Item{
			CustomerID: "c9",
			DebtID:     "d9",
			EnqueuedAt: time.UnixMilli(1700000000000),
			Attempts:   2,
		}
		data, err := in.Encode()
		if err != nil {
			t.Fatal(err)
		}
		out, err := queue.Decode(data)
		if err != nil {
			t.Fatal(err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: in=%+v out=%+v", in, out)
		}
	})
}
