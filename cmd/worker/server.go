package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/infrastructure/queue"
	"bookheaven-backend/internal/shared"
	"bookheaven-backend/pkg/logger"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// queuePriorities weights the queues the worker consumes
func queuePriorities() map[string]int {
	return map[string]int{
		shared.QueueDefault:     10,
		shared.QueueMaintenance: 5,
	}
}

// setupAsynqServer creates the server and starts it in the background
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	taskLog := logger.Component("asynq")

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Queues:      queuePriorities(),
			Concurrency: cfg.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskLog.Error().Err(err).Str("type", task.Type()).Msg("Task failed")
			}),
		},
	)

	go func() {
		log.Info().Int("concurrency", cfg.Worker.Concurrency).Msg("[Worker] Starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[Worker] Failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks and stops the server
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] Shutting down")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] Stopped")
}
