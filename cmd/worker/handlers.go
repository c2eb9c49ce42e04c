package main

import (
	"github.com/hibiken/asynq"

	likeJob "bookheaven-backend/internal/domains/like/job"
	"bookheaven-backend/internal/shared"
	"bookheaven-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	reconcileLikeCounts *likeJob.ReconcileCountsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		reconcileLikeCounts: likeJob.NewReconcileCountsHandler(c.LikeService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Maintenance tasks
	mux.HandleFunc(shared.TypeReconcileLikeCounts, h.reconcileLikeCounts.ProcessTask)
}
