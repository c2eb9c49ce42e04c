package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/domains/like/model"
	"bookheaven-backend/internal/domains/like/service"
	"bookheaven-backend/internal/shared"
)

// ReconcileCountsHandler rewrites like_count columns that drifted from the
// likes table
type ReconcileCountsHandler struct {
	likeService service.ServiceInterface
}

func NewReconcileCountsHandler(likeService service.ServiceInterface) *ReconcileCountsHandler {
	return &ReconcileCountsHandler{likeService: likeService}
}

// NewReconcileCountsTask builds the task the scheduler enqueues
func NewReconcileCountsTask(kinds ...model.SubjectKind) (*asynq.Task, error) {
	payload := shared.ReconcileLikesPayload{}
	for _, k := range kinds {
		payload.Kinds = append(payload.Kinds, string(k))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeReconcileLikeCounts, raw), nil
}

func (h *ReconcileCountsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReconcileLikesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// a malformed payload never becomes valid on retry
		return fmt.Errorf("unmarshal reconcile payload: %v: %w", err, asynq.SkipRetry)
	}

	kinds := make([]model.SubjectKind, 0, len(payload.Kinds))
	for _, k := range payload.Kinds {
		kind, err := model.ParseSubjectKind(k)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		kinds = append(kinds, kind)
	}

	start := time.Now()
	log.Info().Strs("kinds", payload.Kinds).Msg("Starting like count reconciliation")

	results, err := h.likeService.Reconcile(ctx, kinds...)
	if err != nil {
		log.Error().Err(err).Msg("Like count reconciliation failed")
		return err
	}

	for _, r := range results {
		log.Info().
			Str("kind", string(r.Kind)).
			Int64("updated", r.Updated).
			Dur("elapsed", time.Since(start)).
			Msg("Reconciled like counts")
	}

	return nil
}
