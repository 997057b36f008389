package middleware

import (
	"strings"

	"serenity/internal/adapter/http/helper"
	"serenity/internal/core/port"
	"serenity/pkg/auth"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey    = "x-user-id"
	UserEmailKey = "x-user-email"
)

// GinJwtMiddleware admits requests carrying a valid bearer token for a user
// that still exists.
func GinJwtMiddleware(tokens *auth.JWT, users port.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(bearer, "Bearer ")

		if !found || strings.TrimSpace(token) == "" {
			helper.SendUnauthorizedError(c, "Access token required")
			c.Abort()
			return
		}

		claims, err := tokens.VerifyToken(strings.TrimSpace(token))

		if err != nil {
			helper.SendForbiddenError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if _, err := users.GetByID(c.Request.Context(), claims.UserID); err != nil {
			helper.SendForbiddenError(c, "User not found")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		GetCurrent(c).Set("user_id", claims.UserID)

		c.Next()
	}
}
