package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimitOptions configures the fixed-window login limiter.
type RateLimitOptions struct {
	Prefix string
	Limit  int
	Window time.Duration
}

// NewRedisClient connects to Redis and returns nil when addr is empty or the
// server does not answer, in which case limiting is disabled.
func NewRedisClient(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unavailable; login rate limiting disabled")
		_ = client.Close()
		return nil
	}
	return client
}

// fixedWindow increments the counter and makes sure it carries an expiry in
// one step. A key left without a TTL gets one on its next hit.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	ttl = tonumber(ARGV[1])
	redis.call('PEXPIRE', KEYS[1], ttl)
end
return {count, ttl}
`)

// RateLimit counts requests per client IP and route in Redis. Redis errors
// let the request through.
func RateLimit(rdb *redis.Client, opts RateLimitOptions) gin.HandlerFunc {
	if rdb == nil || opts.Limit <= 0 || opts.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := rateLimitKey(opts.Prefix, c.ClientIP(), c.FullPath())

		count, ttl, err := hit(ctx, rdb, key, opts.Window)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("rate limit check failed")
			c.Next()
			return
		}

		remaining := int64(opts.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(opts.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(opts.Limit) {
			if ttl <= 0 {
				ttl = opts.Window
			}
			secs := int64(math.Ceil(ttl.Seconds()))
			c.Header("Retry-After", strconv.FormatInt(secs, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts. Try again later."})
			return
		}
		c.Next()
	}
}

func hit(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, time.Duration, error) {
	vals, err := fixedWindow.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %v", vals)
	}
	return vals[0], time.Duration(vals[1]) * time.Millisecond, nil
}

func rateLimitKey(prefix, ip, route string) string {
	if prefix == "" {
		prefix = "ratelimit"
	}
	if ip == "" {
		ip = "unknown"
	}
	return prefix + ":" + route + ":" + ip
}
