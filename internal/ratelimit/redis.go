package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares counters across server instances. The in-memory
// store is fine behind a single process; deployments running several
// replicas select this one instead.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	k := s.prefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	// Expiry marks the window boundary; NX keeps the original window
	// start when the key already exists.
	pipe.Do(ctx, "pexpire", k, window.Milliseconds(), "nx")
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	resetAt := time.Now().Add(ttl.Val())
	return int(incr.Val()), resetAt, nil
}
