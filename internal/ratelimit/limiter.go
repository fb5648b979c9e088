package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter counts failed attempts per key inside a sliding or fixed window.
type Limiter interface {
	TooManyRecent(ctx context.Context, key string) (bool, error)
	AddFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type MemoryLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (limiter *MemoryLimiter) TooManyRecent(_ context.Context, key string) (bool, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	pruned := limiter.pruneLocked(key, limiter.now())
	return len(pruned) >= limiter.limit, nil
}

func (limiter *MemoryLimiter) AddFailure(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	pruned := limiter.pruneLocked(key, now)
	limiter.attempts[key] = append(pruned, now)
	return nil
}

func (limiter *MemoryLimiter) Reset(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.attempts, key)
	return nil
}

func (limiter *MemoryLimiter) pruneLocked(key string, now time.Time) []time.Time {
	values := limiter.attempts[key]
	if len(values) == 0 {
		return []time.Time{}
	}

	threshold := now.Add(-limiter.window)
	pruned := make([]time.Time, 0, len(values))
	for _, value := range values {
		if value.After(threshold) {
			pruned = append(pruned, value)
		}
	}

	if len(pruned) == 0 {
		delete(limiter.attempts, key)
		return []time.Time{}
	}

	limiter.attempts[key] = pruned
	return pruned
}
