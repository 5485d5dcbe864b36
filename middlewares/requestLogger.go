package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id (reusing the caller's
// X-Request-ID when it is a UUID) and logs one line when it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if identity, ok := CurrentIdentity(c); ok {
			attrs = append(attrs, "user", identity.Email)
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.ErrorContext(c.Request.Context(), "request failed", attrs...)
		case c.Writer.Status() >= 400:
			logger.WarnContext(c.Request.Context(), "request rejected", attrs...)
		default:
			logger.InfoContext(c.Request.Context(), "request completed", attrs...)
		}
	}
}
