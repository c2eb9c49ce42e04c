package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/domains/like/job"
	"bookheaven-backend/internal/domains/like/model"
	"bookheaven-backend/internal/domains/like/service"
	"bookheaven-backend/internal/shared"
	"bookheaven-backend/internal/shared/middleware"
	"bookheaven-backend/internal/shared/response"
)

// TaskEnqueuer is satisfied by *asynq.Client
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type LikeHandler struct {
	likeService service.ServiceInterface
	queue       TaskEnqueuer
}

// NewLikeHandler creates the handler. With a nil queue, reconciliation runs
// inside the request.
func NewLikeHandler(likeService service.ServiceInterface, queue TaskEnqueuer) *LikeHandler {
	return &LikeHandler{likeService: likeService, queue: queue}
}

// GetStatus GET /api/v1/likes/:kind/:id
func (h *LikeHandler) GetStatus(c *gin.Context) {
	userID, subject, ok := h.bind(c)
	if !ok {
		return
	}

	status, err := h.likeService.GetStatus(c.Request.Context(), userID, subject)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// Toggle POST /api/v1/likes/:kind/:id/toggle
func (h *LikeHandler) Toggle(c *gin.Context) {
	userID, subject, ok := h.bind(c)
	if !ok {
		return
	}

	status, err := h.likeService.Toggle(c.Request.Context(), userID, subject)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// Reconcile POST /api/v1/admin/likes/reconcile?kind=
func (h *LikeHandler) Reconcile(c *gin.Context) {
	var kinds []model.SubjectKind
	for _, raw := range c.QueryArray("kind") {
		kind, err := model.ParseSubjectKind(raw)
		if err != nil {
			handleLikeError(c, err)
			return
		}
		kinds = append(kinds, kind)
	}

	if h.queue != nil {
		task, err := job.NewReconcileCountsTask(kinds...)
		if err != nil {
			response.InternalServerError(c, "Internal server error")
			return
		}

		info, err := h.queue.EnqueueContext(c.Request.Context(), task,
			asynq.Queue(shared.QueueMaintenance),
			asynq.MaxRetry(2),
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to enqueue like reconciliation")
			response.InternalServerError(c, "Internal server error")
			return
		}

		response.Success(c, http.StatusAccepted, gin.H{"task_id": info.ID, "queue": info.Queue})
		return
	}

	results, err := h.likeService.Reconcile(c.Request.Context(), kinds...)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, results)
}

func (h *LikeHandler) bind(c *gin.Context) (string, model.Subject, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return "", model.Subject{}, false
	}

	kind, err := model.ParseSubjectKind(c.Param("kind"))
	if err != nil {
		handleLikeError(c, err)
		return "", model.Subject{}, false
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, "Invalid subject ID")
		return "", model.Subject{}, false
	}

	return userID, model.Subject{Kind: kind, ID: id}, true
}

func handleLikeError(c *gin.Context, err error) {
	var likeErr *model.LikeError
	if !errors.As(err, &likeErr) {
		response.InternalServerError(c, "Internal server error")
		return
	}

	switch likeErr.Code {
	case model.ErrCodeInvalidSubject:
		response.ErrorResponse(c, http.StatusBadRequest, likeErr.Code, likeErr.Message)
	case model.ErrCodeSubjectNotFound:
		response.ErrorResponse(c, http.StatusNotFound, likeErr.Code, likeErr.Message)
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
