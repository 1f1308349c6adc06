package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/cppla/qaboard/config"
	"github.com/cppla/qaboard/utils"
)

const limiterIdleTTL = 5 * time.Minute

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory. Buckets idle
// for five minutes are dropped.
type MemoryLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rateLimiter
}

// NewMemoryLimiter allows perMinute requests per key with a burst of half that.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    max(perMinute/2, 1),
		limiters: map[string]*rateLimiter{},
	}
}

// Allow takes one token from key's bucket.
func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, l := range m.limiters {
		if now.After(l.expires) {
			delete(m.limiters, k)
		}
	}

	l, ok := m.limiters[key]
	if !ok {
		l = &rateLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = l
	}
	l.expires = now.Add(limiterIdleTTL)
	return l.limiter.Allow(), nil
}

// RedisLimiter counts requests per key in fixed one-minute windows shared by
// every instance pointing at the same Redis.
type RedisLimiter struct {
	client    *redis.Client
	perMinute int64
	prefix    string
}

// NewRedisLimiter allows perMinute requests per key and window.
func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{client: client, perMinute: int64(max(perMinute, 1)), prefix: "qaboard:ratelimit:"}
}

// Allow increments key's counter for the current window.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := time.Now().Unix() / 60
	k := fmt.Sprintf("%s%s:%d", r.prefix, key, window)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= r.perMinute, nil
}

// fallbackLimiter prefers primary and uses secondary while primary errors.
type fallbackLimiter struct {
	primary   Limiter
	secondary Limiter
}

func (f fallbackLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := f.primary.Allow(ctx, key)
	if err == nil {
		return ok, nil
	}
	utils.Sugar.Warnf("rate limiter backend failed, using memory: %v", err)
	return f.secondary.Allow(ctx, key)
}

// RateLimit rejects clients over their allowance with 429. Limiter errors let
// the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		allowed, err := l.Allow(ctx.Request.Context(), ctx.ClientIP())
		if err != nil {
			utils.Sugar.Warnf("rate limiter failed: %v", err)
			ctx.Next()
			return
		}
		if !allowed {
			utils.Error(ctx, http.StatusTooManyRequests, "Too Many Requests: rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

// RateLimitMiddleware builds the limiter from configuration: Redis when a host
// is configured, memory otherwise. A non-positive limit disables throttling.
func RateLimitMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	if cfg.RateLimitPerMinute <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	var l Limiter = NewMemoryLimiter(cfg.RateLimitPerMinute)
	if client := utils.GetRedis(); client != nil {
		l = fallbackLimiter{primary: NewRedisLimiter(client, cfg.RateLimitPerMinute), secondary: l}
	}
	return RateLimit(l)
}
