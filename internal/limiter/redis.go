package limiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "impact:ratelimit:"

// Redis counts requests in a shared Redis instance so the cap holds
// across multiple server processes. The window is enforced by the key
// TTL set on the first hit.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// Allow increments the per-key counter and admits the request while the
// counter is at or below the cap. Backend errors fail open: rate
// limiting here is abuse mitigation, not quota enforcement, and a
// Redis outage must not take the report viewer down with it.
func (r *Redis) Allow(ctx context.Context, key string) bool {
	k := redisKeyPrefix + key

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		slog.Warn("rate limit incr failed, allowing request", "error", err)
		return true
	}
	if n == 1 {
		if err := r.client.Expire(ctx, k, Window).Err(); err != nil {
			slog.Warn("rate limit expire failed", "error", err)
		}
	}
	return n <= MaxRequests
}

func (r *Redis) Close() error {
	return r.client.Close()
}
