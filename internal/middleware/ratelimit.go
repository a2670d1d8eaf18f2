package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizhub-backend/internal/logger"
)

// Counter increments a fixed-window hit counter and returns the new count.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter shares the window across every server instance.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

type visitor struct {
	count     int64
	windowEnd time.Time
}

// MemoryCounter is a single-process Counter.
type MemoryCounter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{visitors: make(map[string]*visitor), now: time.Now}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, v := range c.visitors {
		if now.After(v.windowEnd) {
			delete(c.visitors, k)
		}
	}

	v, exists := c.visitors[key]
	if !exists {
		v = &visitor{windowEnd: now.Add(window)}
		c.visitors[key] = v
	}
	v.count++
	return v.count, nil
}

type RateLimiter struct {
	counter Counter
	prefix  string
	limit   int
	window  time.Duration
	log     *logger.Logger
}

func NewRateLimiter(counter Counter, prefix string, limit int, window time.Duration, log *logger.Logger) *RateLimiter {
	return &RateLimiter{counter: counter, prefix: prefix, limit: limit, window: window, log: log}
}

// Middleware rejects clients that exceed limit requests per window. Counter
// failures let the request through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + rl.prefix + ":" + clientIP(r)

		count, err := rl.counter.Incr(r.Context(), key, rl.window)
		if err != nil {
			rl.log.Warn("rate limiter unavailable", "key", key, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(rl.limit) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
