package ratelimit

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a live Redis; set REDIS_ADDR to run them.
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	store, err := NewRedisStore(addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testKey(t *testing.T, store *RedisStore) string {
	t.Helper()
	key := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_ = store.client.Del(context.Background(), store.prefix+key).Err()
	})
	return key
}

func TestRedisStoreIncrementsAtomicallyPerKey(t *testing.T) {
	store := newTestRedisStore(t)
	key := testKey(t, store)
	ctx := context.Background()

	const n = 25
	counts := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _, err := store.Increment(ctx, key, time.Minute)
			assert.NoError(t, err)
			counts[i] = c
		}(i)
	}
	wg.Wait()

	// every increment observed a distinct count; none were lost
	seen := make(map[int64]bool, n)
	var max int64
	for _, c := range counts {
		assert.False(t, seen[c], "count %d returned twice", c)
		seen[c] = true
		if c > max {
			max = c
		}
	}
	assert.Equal(t, int64(n), max)
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	store := newTestRedisStore(t)
	key := testKey(t, store)
	ctx := context.Background()

	count, retryAfter, err := store.Increment(ctx, key, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 2*time.Second, retryAfter)

	count, retryAfter, err = store.Increment(ctx, key, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, 2*time.Second)

	// the TTL is anchored to the first increment, so the key always expires
	ttl, err := store.client.TTL(ctx, store.prefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisStoreKeyNeverLacksTTL(t *testing.T) {
	store := newTestRedisStore(t)
	key := testKey(t, store)
	ctx := context.Background()

	// a leftover counter without a TTL (e.g. from an older writer) is healed
	// by the NX expire on the next increment
	require.NoError(t, store.client.Set(ctx, store.prefix+key, 7, 0).Err())

	count, _, err := store.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)

	ttl, err := store.client.TTL(ctx, store.prefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "counter must always carry a TTL")
}
