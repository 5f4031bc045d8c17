package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "err", c.Errors.String())
		}

		if c.Writer.Status() >= 500 {
			slog.ErrorContext(c.Request.Context(), "HTTP request", attrs...)
			return
		}
		slog.InfoContext(c.Request.Context(), "HTTP request", attrs...)
	}
}
