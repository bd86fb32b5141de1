package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"octofit/utils"
)

// Context keys set by AdminAuthMiddleware.
const (
	AdminEmailKey = "adminEmail"
	AdminRoleKey  = "adminRole"
)

// AdminAuthMiddleware verifies the bearer JWT and stores the operator's
// email and role in the context
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := utils.ValidateAdminToken(secret, parts[1])
		if err != nil {
			message := "Invalid or expired token"
			if errors.Is(err, utils.ErrTokenExpired) {
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		c.Set(AdminEmailKey, claims.Email)
		c.Set(AdminRoleKey, claims.Role)
		c.Next()
	}
}
