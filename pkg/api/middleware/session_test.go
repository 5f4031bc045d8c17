package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ollama-webui/pkg/logger"
)

func newSessionRouter(seen *string, fromCtx *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session())
	r.GET("/", func(c *gin.Context) {
		*seen = SessionID(c)
		*fromCtx, _ = logger.SessionIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSessionFromHeader(t *testing.T) {
	var seen, fromCtx string
	r := newSessionRouter(&seen, &fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "abc")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", fromCtx)
	assert.Equal(t, "abc", w.Header().Get(SessionHeader))
}

func TestSessionFromCookie(t *testing.T) {
	var seen, fromCtx string
	r := newSessionRouter(&seen, &fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "from-cookie", seen)
}

func TestSessionMinted(t *testing.T) {
	var seen, fromCtx string
	r := newSessionRouter(&seen, &fromCtx)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}
