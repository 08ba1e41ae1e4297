package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter configuration
type Config struct {
	Enabled          bool
	WindowDuration   time.Duration
	DefaultRequests  int
	CheckoutRequests int
	WebhookRequests  int
	WhitelistedIPs   []string
}

// RateLimiter implements a Redis-backed fixed-window rate limiter.
// Counters live in Redis so limits hold across server instances.
type RateLimiter struct {
	client *redis.Client
	config *Config
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{client: client, config: config}
}

// Allow increments the counter for the key's current window and reports
// whether the request is within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int) (bool, int, error) {
	window := time.Now().Unix() / int64(rl.config.WindowDuration.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.WindowDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= limit, remaining, nil
}

func (rl *RateLimiter) isWhitelisted(ip string) bool {
	for _, allowed := range rl.config.WhitelistedIPs {
		if allowed == ip {
			return true
		}
	}
	return false
}

// Middleware returns a gin middleware enforcing the given per-window limit.
// On Redis failure the request is allowed through; availability of the
// booking path wins over strict limiting.
func Middleware(rl *RateLimiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || !rl.config.Enabled {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if rl.isWhitelisted(ip) {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", ip, c.FullPath())
		allowed, remaining, err := rl.Allow(c.Request.Context(), key, limit)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, try again later",
			})
			return
		}

		c.Next()
	}
}
