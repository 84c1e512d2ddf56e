package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"care-recruitment-backend/internal/delivery/http/response"
	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/logger"
	"care-recruitment-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix, e.g. "rl:intake:"
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
}

// IntakeRateLimitConfig limits application submissions per IP
func IntakeRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:intake:"}
}

// LoginRateLimitConfig limits admin login attempts per IP
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:login:"}
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests in fixed windows. It uses Redis when a client is
// available and falls back to process memory otherwise or on Redis errors.
type RateLimiter struct {
	redis *goredis.Client
	audit *security.AuditLogger
	now   func() time.Time

	mu        sync.Mutex
	entries   map[string]*rateLimitEntry
	lastSweep time.Time
}

func NewRateLimiter(client *goredis.Client, audit *security.AuditLogger) *RateLimiter {
	if audit == nil {
		audit = security.NopAuditLogger()
	}
	return &RateLimiter{
		redis:   client,
		audit:   audit,
		now:     time.Now,
		entries: make(map[string]*rateLimitEntry),
	}
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// Middleware enforces config on the routes it is attached to.
func (rl *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		count, resetAt := rl.hit(c.Request.Context(), fullKey, config)

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			rl.audit.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetString(string(domain.KeyRequestID)), c.FullPath())

			response.Abort(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func (rl *RateLimiter) hit(ctx context.Context, key string, config RateLimitConfig) (int, time.Time) {
	if rl.redis != nil {
		count, resetAt, err := rl.hitRedis(ctx, key, config)
		if err == nil {
			return count, resetAt
		}
		logger.Log.Warn("Rate limit falling back to memory", "error", err)
	}
	return rl.hitMemory(key, config)
}

// hitRedis checks rate limit using Redis with atomic Lua script
func (rl *RateLimiter) hitRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rl.redis.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

// hitMemory is the single-process fallback. Expired entries are swept at most
// once a minute.
func (rl *RateLimiter) hitMemory(key string, config RateLimitConfig) (int, time.Time) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > time.Minute {
		for k, e := range rl.entries {
			if now.After(e.resetAt) {
				delete(rl.entries, k)
			}
		}
		rl.lastSweep = now
	}

	entry, ok := rl.entries[key]
	if !ok || now.After(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(config.Window)}
		rl.entries[key] = entry
	}
	entry.count++

	return entry.count, entry.resetAt
}
