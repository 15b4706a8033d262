// Package limiter bounds abusive request rates per client key using a
// fixed 60-second window. Two backends implement the same interface:
// an in-process map (single instance) and a shared Redis counter for
// deployments with multiple instances.
package limiter

import (
	"context"
	"log/slog"
	"time"
)

const (
	// Window is the fixed, non-sliding rate-limit window.
	Window = time.Minute
	// MaxRequests is the per-key cap inside one window.
	MaxRequests = 20
)

// Limiter decides whether a request from the given client key may
// proceed. Implementations are soft limits: concurrent requests may
// admit slightly more than the cap, and backend failures fail open.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// New selects a backend: Redis when addr is non-empty and reachable,
// otherwise the in-memory limiter.
func New(redisAddr, redisPassword string, logger *slog.Logger) Limiter {
	if redisAddr != "" {
		rl, err := NewRedis(redisAddr, redisPassword)
		if err != nil {
			logger.Warn("redis unreachable, using in-memory rate limiter", "addr", redisAddr, "error", err)
			return NewMemory()
		}
		logger.Info("using redis rate limiter", "addr", redisAddr)
		return rl
	}
	return NewMemory()
}
