package middleware

import (
	"net/http"
	"net/http/httptest"
	"printdoc/document-api/security"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func sessionTestContext(t *testing.T, cookie string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/auth/me", nil)
	if cookie != "" {
		c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	c.Set("requestID", "test")

	return c, w
}

func TestSessionMiddlewareMissingCookie(t *testing.T) {
	tokens := security.NewTokenService("test-secret", time.Hour)
	mw := NewSessionMiddleware(tokens)

	c, w := sessionTestContext(t, "")
	mw(c)

	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareInvalidToken(t *testing.T) {
	tokens := security.NewTokenService("test-secret", time.Hour)
	mw := NewSessionMiddleware(tokens)

	c, w := sessionTestContext(t, "definitely-not-a-jwt")
	mw(c)

	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionMiddlewareExpiredToken(t *testing.T) {
	expired := security.NewTokenService("test-secret", -2*time.Hour)
	token, err := expired.Issue("admin-1", "a@x.com", "Shop", "1234")
	require.NoError(t, err)

	tokens := security.NewTokenService("test-secret", time.Hour)
	mw := NewSessionMiddleware(tokens)

	c, w := sessionTestContext(t, token)
	mw(c)

	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionMiddlewareValidToken(t *testing.T) {
	tokens := security.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Issue("admin-1", "a@x.com", "Shop", "1234")
	require.NoError(t, err)

	mw := NewSessionMiddleware(tokens)

	c, w := sessionTestContext(t, token)
	mw(c)

	require.False(t, c.IsAborted())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "admin-1", c.GetString("adminID"))
	require.Equal(t, "a@x.com", c.GetString("adminEmail"))
	require.Equal(t, "Shop", c.GetString("adminName"))
	require.Equal(t, "1234", c.GetString("uploadPin"))
}
