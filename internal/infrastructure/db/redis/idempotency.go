package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "idempotency:"
	pendingMarker     = "pending"
)

// IdempotencyStore implements ports.IdempotencyStore. A key holds
// pendingMarker while its request is in flight and the created sale id once
// it completes. Keys expire after ttl either way.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Claim(ctx context.Context, key string) (int64, bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyPrefix+key, pendingMarker, s.ttl).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, idempotencyPrefix+key).Result()
	if errors.Is(err, redis.Nil) || val == pendingMarker {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency value %q: %w", val, err)
	}
	return id, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, saleID int64) error {
	err := s.client.Set(ctx, idempotencyPrefix+key, strconv.FormatInt(saleID, 10), s.ttl).Err()
	if err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
