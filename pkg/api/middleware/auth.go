package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	IsAuthorized(token string) bool
}

// Auth rejects requests whose bearer token is not accepted by a.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !a.IsAuthorized(strings.TrimSpace(token)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
