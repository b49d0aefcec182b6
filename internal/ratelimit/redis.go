package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares fixed-window counters across gateway instances. The key
// is created with the window TTL on first increment and counts up until Redis
// expires it.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr and verifies the connection with a ping.
func NewRedisStore(addr string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client, prefix: "ratelimit:"}, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := s.prefix + key

	// one MULTI/EXEC round trip: the key can never exist without a TTL, and
	// NX keeps the window anchored to its first increment
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	expire := pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	if expire.Val() {
		return incr.Val(), window, nil
	}

	ttl, err := s.client.TTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return incr.Val(), ttl, nil
}
