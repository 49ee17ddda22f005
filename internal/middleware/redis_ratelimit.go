package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// slidingWindow admits a request when fewer than limit requests were seen in
// the last window seconds.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local window = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window * 1000)
local current = redis.call('ZCARD', key)
if current < limit then
  redis.call('ZADD', key, now, member)
  redis.call('PEXPIRE', key, window * 1000)
  return {1, limit - current - 1}
end
return {0, 0}
`)

// RedisRateLimit limits each client IP to burst requests per burst/rps
// seconds. It runs ahead of authentication, so callers are keyed by IP only.
// It fails open when Redis errors.
func RedisRateLimit(redisClient *redis.Client, rps int, burst int) gin.HandlerFunc {
	windowSecs := burst / max(rps, 1)
	if windowSecs < 1 {
		windowSecs = 1
	}
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 200*time.Millisecond)
		defer cancel()

		now := time.Now()
		member := fmt.Sprintf("%d-%s", now.UnixNano(), c.GetString("request_id"))
		res, err := slidingWindow.Run(ctx, redisClient, []string{key}, windowSecs, burst, now.UnixMilli(), member).Int64Slice()
		if err != nil || len(res) < 2 {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", burst))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", res[1]))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Unix()+int64(windowSecs)))

		if res[0] == 0 {
			c.Header("Retry-After", fmt.Sprintf("%d", windowSecs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": windowSecs,
			})
			return
		}

		c.Next()
	}
}

// HybridRateLimit uses Redis when reachable and the in-memory limiter otherwise.
func HybridRateLimit(redisClient *redis.Client, rps int, burst int) gin.HandlerFunc {
	memoryRateLimit := RateLimit(rps, burst)
	redisRateLimit := RedisRateLimit(redisClient, rps, burst)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 100*time.Millisecond)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			memoryRateLimit(c)
			return
		}
		redisRateLimit(c)
	}
}
