package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DedupStore implements ports.CallbackDedup using Redis SET NX. It is a
// best-effort filter for duplicate notify deliveries; the row-level lock in
// the applier remains the correctness mechanism.
type DedupStore struct {
	client *goredis.Client
}

// NewDedupStore creates a new Redis-backed callback dedup store.
func NewDedupStore(client *goredis.Client) *DedupStore {
	return &DedupStore{client: client}
}

// CheckAndSet atomically records the key, returning true if it was not seen
// before within the TTL window.
func (s *DedupStore) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — duplicate delivery
			return false, nil
		}
		return false, fmt.Errorf("redis dedup check: %w", err)
	}
	return result == "OK", nil
}

// Delete releases a recorded key so a retried delivery is not suppressed.
func (s *DedupStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis dedup delete: %w", err)
	}
	return nil
}
