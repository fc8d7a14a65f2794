package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"plate-plan.backend/pkg/logger"
	"plate-plan.backend/pkg/redis"
)

// KeyFunc derives the rate-limit bucket for a request
type KeyFunc func(c *gin.Context) string

// KeyByIP buckets requests by client IP
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByUser buckets requests by the authenticated user id.
// Falls back to client IP when the request is unauthenticated.
func KeyByUser(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return userID.String()
	}
	return c.ClientIP()
}

// RateLimitMiddleware enforces a fixed-window quota per bucket in Redis.
// The counter key is seeded with its TTL before the first increment so a
// crash between the two calls cannot leave an immortal counter. Requests
// past the limit receive 429 with a Retry-After header. A Redis failure
// lets the request through rather than blocking traffic.
func RateLimitMiddleware(name string, limit int, window time.Duration, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, keyFn(c))

		if _, err := redis.SetNX(c.Request.Context(), key, 0, window); err != nil {
			logger.Error(c.Request.Context(), "Rate limit check failed, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		count, err := redis.Incr(c.Request.Context(), key)
		if err != nil {
			logger.Error(c.Request.Context(), "Rate limit check failed, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
