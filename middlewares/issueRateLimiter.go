package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// IssueRateLimiter caps how many issues one user may file per window. The
// counter lives in Redis under "<queuePrefix>:<user id>" and expires with the
// window. A nil client disables the limit.
func IssueRateLimiter(client *redis.Client, queuePrefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		identity, ok := CurrentIdentity(c)
		if !ok || identity.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		ctx := c.Request.Context()
		userKey := queuePrefix + ":" + identity.UserID

		count, err := client.Incr(ctx, userKey).Result()
		if err != nil {
			slog.ErrorContext(ctx, "rate limiter increment failed", "key", userKey, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			return
		}

		// Set TTL only for the first increment
		if count == 1 {
			if err := client.Expire(ctx, userKey, window).Err(); err != nil {
				slog.ErrorContext(ctx, "rate limiter expire failed", "key", userKey, "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, userKey).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
