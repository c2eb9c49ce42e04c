package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	ContextRequestID = "request_id"
	HeaderRequestID  = "X-Request-ID"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// Logger writes one line per request. 5xx log at error level, 4xx at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400:
			level = zerolog.WarnLevel
		}

		event := log.WithLevel(level).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency_ms", time.Since(start)).
			Str("ip", c.ClientIP())
		if userID := c.GetString(ContextUserID); userID != "" {
			event = event.Str("user_id", userID)
		}
		event.Msg("HTTP Request")
	}
}
