package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dskvich/ollama-webui/pkg/logger"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	sessionKey       = "session_id"
	sessionCookieAge = 30 * 24 * 60 * 60
)

// Session resolves the chat session of a request from the X-Session-ID header
// or the session_id cookie, minting a new one when neither is present. The id
// is echoed back in both and attached to the request context for logging.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(sessionKey, id)
		c.Header(SessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionCookieAge, "/", "", false, true)

		c.Request = c.Request.WithContext(logger.ContextWithSessionID(c.Request.Context(), id))

		c.Next()
	}
}

// SessionID returns the id resolved by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
