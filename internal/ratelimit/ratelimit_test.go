package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreFixedWindow(t *testing.T) {
	now := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	count, retry, err := s.Increment(context.Background(), "client-a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, retry)

	count, _, err = s.Increment(context.Background(), "client-a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// a different key gets its own window
	count, _, err = s.Increment(context.Background(), "client-b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// window elapses: counter resets
	now = now.Add(time.Minute)
	count, retry, err = s.Increment(context.Background(), "client-a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, retry)
}

func TestMemoryStoreEvictsExpiredWindows(t *testing.T) {
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		_, _, err := s.Increment(context.Background(), key, time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 3, s.Len())

	now = now.Add(30 * time.Second)
	_, _, err := s.Increment(context.Background(), "d", time.Minute)
	require.NoError(t, err)

	now = now.Add(31 * time.Second)
	s.evictExpired(time.Minute)

	// a, b, c lapsed; d still has 29s left
	assert.Equal(t, 1, s.Len())
}

func TestLimiterCeiling(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), 3, time.Minute)

	for i := 0; i < 3; i++ {
		dec, err := l.Allow(context.Background(), "client")
		require.NoError(t, err)
		assert.True(t, dec.Allowed, "request %d should be allowed", i+1)
	}
	dec, err := l.Allow(context.Background(), "client")
	require.NoError(t, err)
	assert.False(t, dec.Allowed, "request over the ceiling must be rejected")
	assert.Equal(t, int64(4), dec.Count)
}

func TestLimiterConcurrentClientsDoNotInterfere(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), 50, time.Minute)

	var wg sync.WaitGroup
	denied := make([]int, 2)
	for c, key := range []string{"client-a", "client-b"} {
		wg.Add(1)
		go func(c int, key string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				dec, err := l.Allow(context.Background(), key)
				if err != nil || !dec.Allowed {
					denied[c]++
				}
			}
		}(c, key)
	}
	wg.Wait()

	// each client used exactly its quota; neither was rejected
	assert.Equal(t, 0, denied[0])
	assert.Equal(t, 0, denied[1])
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), 2, time.Minute)
	var forwarded int
	h := l.Middleware(false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.9:4321"
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = "10.0.0.9:4321"
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too Many Requests")
	assert.Equal(t, 2, forwarded, "rejected request must never reach the next handler")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "192.168.1.5", ClientKey(req, false), "untrusted proxy: use the connection address")
	assert.Equal(t, "203.0.113.7", ClientKey(req, true), "trusted proxy: use the first forwarded hop")

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	bare.RemoteAddr = "192.168.1.6:9999"
	assert.Equal(t, "192.168.1.6", ClientKey(bare, true))
}
