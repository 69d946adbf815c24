package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request and tags it with a request id,
// reusing the caller's X-Request-ID when present.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
		}
		if id, ok := c.Get(userIDKey); ok {
			kv = append(kv, "user_id", id)
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request completed", kv...)
		case len(c.Errors) > 0:
			logger.Warn("request completed", append(kv, "errors", c.Errors.String())...)
		default:
			logger.Info("request completed", kv...)
		}
	}
}
