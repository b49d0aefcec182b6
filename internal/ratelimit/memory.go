package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int64
}

// MemoryStore keeps one fixed window per client key in process memory. A
// janitor goroutine evicts windows whose interval has lapsed so the map stays
// bounded as distinct clients come and go.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: map[string]*window{}, now: time.Now}
}

func (s *MemoryStore) Increment(ctx context.Context, key string, wlen time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= wlen {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.count++
	return w.count, wlen - now.Sub(w.start), nil
}

// Len reports the number of tracked client windows.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// StartJanitor evicts expired windows every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval, wlen time.Duration) {
	if interval <= 0 {
		interval = wlen
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.evictExpired(wlen)
			}
		}
	}()
}

func (s *MemoryStore) evictExpired(wlen time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, w := range s.windows {
		if now.Sub(w.start) >= wlen {
			delete(s.windows, key)
		}
	}
}
