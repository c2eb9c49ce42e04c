package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/shared/response"
	"bookheaven-backend/pkg/jwt"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// AuthMiddleware verifies the bearer token and puts the user id and role on the context
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify and parse
		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Msg("rejected access token")
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		// 4. User ids are UUIDs
		if _, err := uuid.Parse(claims.UserID); err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// GetUserID returns the authenticated user id
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserID)
	return userID, userID != ""
}
