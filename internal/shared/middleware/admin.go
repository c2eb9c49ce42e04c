package middleware

import (
	"github.com/gin-gonic/gin"

	"bookheaven-backend/internal/shared/response"
)

const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role. Runs after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
