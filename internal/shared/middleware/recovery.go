package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/shared/response"
)

const ErrCodeInternal = "SYS_001"

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(ContextRequestID)).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("Panic recovered")

				response.ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternal, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
