package ratelimit

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	count   int
	resetAt time.Time
}

// MemoryStore is the default process-local store. Counters are not
// persisted across restarts; the limiter deters abuse, it is not
// billing-grade accounting.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[key]
	if !ok || now.After(c.resetAt) {
		c = &counter{resetAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, c.resetAt, nil
}

// Sweep discards counters whose window has already expired, bounding
// growth from one-off clients.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, c := range s.counters {
		if now.After(c.resetAt) {
			delete(s.counters, key)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps expired counters at the given interval until ctx
// is canceled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
