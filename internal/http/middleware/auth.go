package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"propbill.app/server/common/logger"
	"propbill.app/server/internal/service"
)

const userIDKey = "auth_user_id"

// RequireAuth validates the bearer token and stores the caller's user id on
// the request. Every /api/v1 route runs behind it.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithLogFields(c.Request.Context(), logger.LogFields{
			UserID: logger.Ptr(claims.UserID),
		}))

		c.Next()
	}
}

// UserID returns the authenticated user's id. Zero means RequireAuth did not
// run on this route.
func UserID(c *gin.Context) int64 {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(int64)
	return userID
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}
