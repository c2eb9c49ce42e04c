package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookheaven-backend/internal/domains/rating/model"
	"bookheaven-backend/internal/domains/rating/service"
	"bookheaven-backend/internal/shared/middleware"
	"bookheaven-backend/internal/shared/response"
)

type RatingHandler struct {
	ratingService service.ServiceInterface
}

func NewRatingHandler(ratingService service.ServiceInterface) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// Upsert PUT /api/v1/ratings
func (h *RatingHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.UpsertRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rating, err := h.ratingService.Upsert(c.Request.Context(), userID, req)
	if err != nil {
		handleRatingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rating)
}

// ListByWork GET /api/v1/works/:id/ratings
func (h *RatingHandler) ListByWork(c *gin.Context) {
	workID := c.Param("id")
	if _, err := uuid.Parse(workID); err != nil {
		response.BadRequest(c, "Invalid work ID")
		return
	}

	var req model.ListRatingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.ratingService.ListByWork(c.Request.Context(), workID, req)
	if err != nil {
		handleRatingError(c, err)
		return
	}

	response.SuccessWithPagination(c, result.Items, result.Pagination)
}

// Statistics GET /api/v1/works/:id/ratings/statistics
func (h *RatingHandler) Statistics(c *gin.Context) {
	workID := c.Param("id")
	if _, err := uuid.Parse(workID); err != nil {
		response.BadRequest(c, "Invalid work ID")
		return
	}

	stats, err := h.ratingService.Statistics(c.Request.Context(), workID)
	if err != nil {
		handleRatingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// Delete DELETE /api/v1/ratings/:id
func (h *RatingHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	ratingID := c.Param("id")
	if _, err := uuid.Parse(ratingID); err != nil {
		response.BadRequest(c, "Invalid rating ID")
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), userID, ratingID); err != nil {
		handleRatingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func handleRatingError(c *gin.Context, err error) {
	var ratingErr *model.RatingError
	if !errors.As(err, &ratingErr) {
		response.InternalServerError(c, "Internal server error")
		return
	}

	switch ratingErr.Code {
	case model.ErrCodeInvalidRating:
		response.ErrorResponse(c, http.StatusBadRequest, ratingErr.Code, ratingErr.Message)
	case model.ErrCodeWorkNotFound, model.ErrCodeRatingNotFound:
		response.ErrorResponse(c, http.StatusNotFound, ratingErr.Code, ratingErr.Message)
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
