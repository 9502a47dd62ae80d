package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimitStore is a fixed-window request counter shared by every API
// instance. It satisfies echo's middleware.RateLimiterStore.
type RateLimitStore struct {
	client  *redis.Client
	limit   int64
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

func NewRateLimitStore(client *redis.Client, limit int, window time.Duration) *RateLimitStore {
	return &RateLimitStore{
		client:  client,
		limit:   int64(limit),
		window:  window,
		timeout: commandTimeout,
		now:     time.Now,
	}
}

// Allow counts one request for identifier in the current window and reports
// whether it is within the limit.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	window := s.now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s%s:%d", rateLimitPrefix, identifier, window)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return incr.Val() <= s.limit, nil
}
