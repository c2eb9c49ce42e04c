package main

import (
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the cron jobs and starts the scheduler
func setupScheduler(cfg *config.Config) (*asynqScheduler, error) {
	scheduler := queue.NewScheduler(cfg.Redis, cfg.Worker)

	if err := scheduler.RegisterJobs(); err != nil {
		return nil, err
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}, nil
}

// Shutdown stops enqueuing periodic tasks
func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
