package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "streaky:login_failures:"

// RedisLimiter keeps a fixed-window failure counter per key so several
// server processes share one budget.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (limiter *RedisLimiter) TooManyRecent(ctx context.Context, key string) (bool, error) {
	count, err := limiter.client.Get(ctx, redisKeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read failure counter: %w", err)
	}
	return count >= limiter.limit, nil
}

func (limiter *RedisLimiter) AddFailure(ctx context.Context, key string) error {
	redisKey := redisKeyPrefix + key
	count, err := limiter.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("increment failure counter: %w", err)
	}
	// The first failure opens the window.
	if count == 1 {
		if err := limiter.client.Expire(ctx, redisKey, limiter.window).Err(); err != nil {
			return fmt.Errorf("expire failure counter: %w", err)
		}
	}
	return nil
}

func (limiter *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := limiter.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset failure counter: %w", err)
	}
	return nil
}
