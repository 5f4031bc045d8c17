package response

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

type JSONResponseWriter struct{}

func (j *JSONResponseWriter) WriteSuccessResponse(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func (j *JSONResponseWriter) WriteErrorResponse(c *gin.Context, statusCode int, message string) {
	slog.DebugContext(c.Request.Context(), "Request failed",
		"path", c.FullPath(),
		"status", statusCode,
		"error", message,
	)
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

type ErrorResponse struct {
	Error string `json:"error"`
}
