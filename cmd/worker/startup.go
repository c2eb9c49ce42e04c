package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// HealthCheck is one named startup check
type HealthCheck struct {
	Name string
	Fn   func(ctx context.Context) error
}

// runHealthChecks runs checks in order and stops at the first failure
func runHealthChecks(ctx context.Context, checks []HealthCheck) error {
	for _, check := range checks {
		log.Info().Str("check", check.Name).Msg("[Startup] Checking")

		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.Fn(checkCtx)
		cancel()

		if err != nil {
			log.Error().Err(err).Str("check", check.Name).Msg("[Startup] Check failed")
			return fmt.Errorf("%s failed: %w", check.Name, err)
		}
		log.Info().Str("check", check.Name).Msg("[Startup] OK")
	}
	return nil
}

// startHealthCheckServer serves liveness and readiness probes
func startHealthCheckServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.HandleFunc("/ready", readyCheckHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("[Health] Failed to start")
		}
	}()
	return srv
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"UP","service":"bookheaven-worker"}`))
}

func readyCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"READY"}`))
}
