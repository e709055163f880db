package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vestira/account-service/pkg/helpers"
	"github.com/vestira/account-service/pkg/response"
)

// Auth validates the session token from the Authorization header or the
// session cookie. Sessions are stateless: a valid signature and expiry is
// all there is to check, no server-side lookup happens. On success it
// injects userID and userEmail into the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.SessionFromRequest(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid session token", nil)
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}
