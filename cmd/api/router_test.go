package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"bookheaven-backend/pkg/cache"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheckHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		db     Pinger
		redis  Pinger
		status int
		body   string
	}{
		{"all up", up, cache.NewMemory(), http.StatusOK, `"redis":"ok"`},
		{"redis down is degraded", up, down, http.StatusOK, "connection refused"},
		{"db down", down, up, http.StatusServiceUnavailable, `"database":"error: connection refused"`},
		{"no cache", up, nil, http.StatusOK, `"redis":"disconnected"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", healthCheckHandler("1.0.0", tt.db, tt.redis))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
