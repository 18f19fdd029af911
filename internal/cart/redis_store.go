package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type cartKeyer interface {
	CartKey(owner string) string
}

// RedisStore persists carts as JSON blobs in Redis. Records carry no TTL; a
// cart lives until the owner clears it or places an order.
type RedisStore struct {
	kv    kvStore
	keyer cartKeyer
}

// RedisBackend is the combined surface the store needs from the redis client.
type RedisBackend interface {
	kvStore
	cartKeyer
}

// NewRedisStore builds a cart store on top of the shared redis client.
func NewRedisStore(backend RedisBackend) (*RedisStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("redis backend is required")
	}
	return &RedisStore{kv: backend, keyer: backend}, nil
}

func (s *RedisStore) Load(ctx context.Context, owner string) ([]LineItem, error) {
	raw, err := s.kv.Get(ctx, s.keyer.CartKey(owner))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading cart record: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, owner string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart record: %w", err)
	}
	if err := s.kv.Set(ctx, s.keyer.CartKey(owner), string(raw), 0); err != nil {
		return fmt.Errorf("saving cart record: %w", err)
	}
	return nil
}
