package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/pkg/container"
	"bookheaven-backend/pkg/logger"
)

const healthAddr = ":9999"

func main() {
	envErr := godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	if envErr != nil {
		log.Warn().Msg("No .env file found, using system environment variables")
	}

	c, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	// Redis is optional for the API but the worker cannot run without it
	if err := runHealthChecks(context.Background(), []HealthCheck{
		{Name: "PostgreSQL", Fn: c.DB.Ping},
		{Name: "Redis", Fn: c.Redis.Ping},
	}); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	srv := setupAsynqServer(c.Config, initializeHandlers(c))

	scheduler, err := setupScheduler(c.Config)
	if err != nil {
		srv.Shutdown()
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register jobs")
	}

	health := startHealthCheckServer(healthAddr)

	waitForShutdown(srv, scheduler, health)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler, health interface {
	Shutdown(ctx context.Context) error
}) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping")
	scheduler.Shutdown()
	srv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = health.Shutdown(ctx)

	log.Info().Msg("[Shutdown] Stopped")
}
