package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// tokenBucket refills at rate tokens per second up to capacity and takes one
// token per request. State lives in a hash {last_refill, tokens}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', tostring(now), 'tokens', tostring(tokens))
redis.call('EXPIRE', key, 60)
return allowed
`)

// RateLimiter throttles clients per method, path and IP with a token bucket.
// Buckets live in Redis when a client is given and in process memory otherwise.
type RateLimiter struct {
	client *redis.Client
	local  *localBuckets
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter. A nil client selects in-process buckets.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
	if client == nil {
		rl.local = newLocalBuckets(config.RequestsPerSecond, config.BurstCapacity)
	}
	return rl
}

// Handler returns the gin middleware. A nil or disabled limiter lets everything through.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || !rl.config.Enabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.Request.URL.Path, clientIP)

		if !rl.allow(c, key) {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Float64("limit", rl.config.RequestsPerSecond),
				zap.Int("burst", rl.config.BurstCapacity),
			)
			c.Header("Retry-After", "1")
			c.String(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(c *gin.Context, key string) bool {
	now := rl.now()
	if rl.local != nil {
		return rl.local.allow(key, now)
	}

	allowed, err := tokenBucket.Run(c.Request.Context(), rl.client, []string{key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		float64(now.UnixMilli())/1000,
	).Int64()
	if err != nil {
		// fail open
		rl.log.Warn("rate limiter redis error, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}
	return allowed == 1
}
