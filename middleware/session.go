package middleware

import (
	"errors"
	"net/http"
	"printdoc/document-api/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Name of the session cookie holding the signed token
const SessionCookie = "token"

// NewSessionMiddleware gates every admin-scoped route. A missing cookie
// is a 401, a token that fails verification is a 403. On success the
// verified claims are attached to the request context for the handlers.
func NewSessionMiddleware(tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})
			return
		}

		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Invalid or expired token",
				"requestID": requestID,
			})

			if !errors.Is(err, security.ErrTokenExpired) {
				zap.L().Debug("Session token rejected", zap.Error(err), zap.String("requestID", requestID))
			}
			return
		}

		c.Set("adminID", claims.AdminID)
		c.Set("adminEmail", claims.Email)
		c.Set("adminName", claims.Name)
		c.Set("uploadPin", claims.Pin)
		c.Next()
	}
}
