package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for counter keys
	KeyPrefix string
}

// windowCounter increments the request count of key within a window
type windowCounter interface {
	incr(ctx context.Context, key string, window time.Duration) (int, error)
}

type redisCounter struct {
	redis *redis.Client
}

func (r redisCounter) incr(ctx context.Context, key string, window time.Duration) (int, error) {
	// Use Redis pipeline for atomic operations
	pipe := r.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incrCmd.Val()), nil
}

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int
	reset  map[string]time.Time
	now    func() time.Time
}

func (m *memoryCounter) incr(_ context.Context, key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, at := range m.reset {
		if now.After(at) {
			delete(m.counts, k)
			delete(m.reset, k)
		}
	}
	if _, ok := m.reset[key]; !ok {
		m.reset[key] = now.Add(window)
	}
	m.counts[key]++
	return m.counts[key], nil
}

// RateLimiter enforces a fixed-window request limit per caller
type RateLimiter struct {
	counter windowCounter
	config  RateLimitConfig
	log     *zap.Logger
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter instance. A nil client keeps the
// counters in process memory.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log *zap.Logger) *RateLimiter {
	rl := &RateLimiter{config: config, log: log.Named("ratelimit"), now: time.Now}
	if redisClient != nil {
		rl.counter = redisCounter{redis: redisClient}
	} else {
		rl.counter = &memoryCounter{
			counts: make(map[string]int),
			reset:  make(map[string]time.Time),
			now:    func() time.Time { return rl.now() },
		}
	}
	return rl
}

// NewScaleRateLimiter limits ingredient scaling calls to limit per minute
func NewScaleRateLimiter(redisClient *redis.Client, limit int, log *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Minute,
		Limit:     limit,
		KeyPrefix: "rate_limit:ingredient_scaling",
	}, log)
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// Callers are keyed by authenticated user, anonymous callers by client IP.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := "ip:" + c.ClientIP()
		if uid := UserID(c); uid != "" {
			caller = "user:" + uid
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), caller)
		if err != nil {
			// Log error but don't fail the request
			rl.log.Warn("rate limit check failed", zap.String("caller", caller), zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate limit exceeded",
				"message":              fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"rate_limit_remaining": remaining,
				"rate_limit_reset":     resetTime.Unix(),
				"retry_after":          int(time.Until(resetTime).Seconds()),
			})
			return
		}

		c.Next()
	}
}

// IsAllowed checks if a request from the given caller is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, caller string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, caller, windowStart.Unix())

	count, err := rl.counter.incr(ctx, key, rl.config.Window)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	allowed := count <= rl.config.Limit

	return allowed, remaining, resetTime, nil
}
