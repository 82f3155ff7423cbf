package queue

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

// ListStore is the minimal list surface the queue needs from its backing
// store. The production implementation is a Redis list shared with any other
// process that produces charges; the in-memory one backs unit tests.
type ListStore interface {
	// LPush inserts the value at the head of the list.
	LPush(ctx context.Context, key string, value []byte) error
	// RPop removes and returns the value at the tail of the list,
	// or domain.ErrQueueEmpty when the list is empty.
	RPop(ctx context.Context, key string) ([]byte, error)
	// Len returns the current length of the list.
	Len(ctx context.Context, key string) (int64, error)
}

type redisListStore struct {
	client *redis.Client
}

// NewRedisListStore wraps a go-redis client as a ListStore.
func NewRedisListStore(client *redis.Client) ListStore {
	return &redisListStore{client: client}
}

func (s *redisListStore) LPush(ctx context.Context, key string, value []byte) error {
	return s.client.LPush(ctx, key, value).Err()
}

func (s *redisListStore) RPop(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.RPop(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrQueueEmpty
	}
	return v, err
}

func (s *redisListStore) Len(ctx context.Context, key string) (int64, error) {
	return s.client.LLen(ctx, key).Result()
}

// MemoryListStore is an in-memory ListStore used in unit tests.
type MemoryListStore struct {
	mu    sync.Mutex
	lists map[string][][]byte

	// Optional error overrides, set in tests to simulate store outages.
	PushErr error
	PopErr  error
}

func NewMemoryListStore() *MemoryListStore {
	return &MemoryListStore{lists: make(map[string][][]byte)}
}

func (s *MemoryListStore) LPush(_ context.Context, key string, value []byte) error {
	if s.PushErr != nil {
		return s.PushErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.lists[key] = append([][]byte{cp}, s.lists[key]...)
	return nil
}

func (s *MemoryListStore) RPop(_ context.Context, key string) ([]byte, error) {
	if s.PopErr != nil {
		return nil, s.PopErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.lists[key]
	if len(l) == 0 {
		return nil, domain.ErrQueueEmpty
	}
	v := l[len(l)-1]
	s.lists[key] = l[:len(l)-1]
	return v, nil
}

func (s *MemoryListStore) Len(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.lists[key])), nil
}
