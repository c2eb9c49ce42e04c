package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookheaven-backend/internal/domains/shelf/model"
	"bookheaven-backend/internal/domains/shelf/service"
	"bookheaven-backend/internal/shared/middleware"
	"bookheaven-backend/internal/shared/response"
)

// =====================================================
// SHELF HANDLER
// =====================================================

type ShelfHandler struct {
	shelfService service.ServiceInterface
}

func NewShelfHandler(shelfService service.ServiceInterface) *ShelfHandler {
	return &ShelfHandler{shelfService: shelfService}
}

// ListShelves GET /api/v1/shelves
func (h *ShelfHandler) ListShelves(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.ListShelvesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	shelves, err := h.shelfService.ListShelves(c.Request.Context(), userID, req)
	if err != nil {
		handleShelfError(c, err)
		return
	}

	response.Success(c, http.StatusOK, shelves)
}

// UpsertShelf PUT /api/v1/shelves
func (h *ShelfHandler) UpsertShelf(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.UpsertShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	shelf, err := h.shelfService.UpsertShelf(c.Request.Context(), userID, req)
	if err != nil {
		handleShelfError(c, err)
		return
	}

	response.Success(c, http.StatusOK, shelf)
}

// DeleteShelf DELETE /api/v1/shelves/:id
func (h *ShelfHandler) DeleteShelf(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	shelfID := c.Param("id")
	if _, err := uuid.Parse(shelfID); err != nil {
		response.BadRequest(c, "Invalid shelf ID")
		return
	}

	if err := h.shelfService.DeleteShelf(c.Request.Context(), userID, shelfID); err != nil {
		handleShelfError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AddItem POST /api/v1/shelves/items
func (h *ShelfHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, err := h.shelfService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		handleShelfError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, items)
}

// RemoveItem DELETE /api/v1/shelves/:id/items?work_id=
func (h *ShelfHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	shelfID := c.Param("id")
	if _, err := uuid.Parse(shelfID); err != nil {
		response.BadRequest(c, "Invalid shelf ID")
		return
	}

	var req model.RemoveItemRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.shelfService.RemoveItem(c.Request.Context(), userID, shelfID, req); err != nil {
		handleShelfError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// MoveItem POST /api/v1/shelves/items/move
func (h *ShelfHandler) MoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.shelfService.MoveItem(c.Request.Context(), userID, req); err != nil {
		handleShelfError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"moved": true})
}

// SelectShelf POST /api/v1/shelves/items/select
func (h *ShelfHandler) SelectShelf(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.SelectShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	state, err := h.shelfService.SelectShelf(c.Request.Context(), userID, req)
	if err != nil {
		handleShelfError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"current_shelf":    state.CurrentShelf,
		"current_shelf_id": state.CurrentShelfID,
		"is_bookmarked":    state.IsBookmarked,
	})
}

// =====================================================
// ERROR MAPPING
// =====================================================

func handleShelfError(c *gin.Context, err error) {
	var shelfErr *model.ShelfError
	if !errors.As(err, &shelfErr) {
		response.InternalServerError(c, "Internal server error")
		return
	}

	switch shelfErr.Code {
	case model.ErrCodeShelfNotFound, model.ErrCodeShelfItemNotFound:
		response.ErrorResponse(c, http.StatusNotFound, shelfErr.Code, shelfErr.Message)
	case model.ErrCodeShelfItemExists:
		response.ErrorResponse(c, http.StatusConflict, shelfErr.Code, shelfErr.Message)
	case model.ErrCodeSystemShelf:
		response.ErrorResponse(c, http.StatusForbidden, shelfErr.Code, shelfErr.Message)
	case model.ErrCodeInvalidShelf:
		response.ErrorResponse(c, http.StatusBadRequest, shelfErr.Code, shelfErr.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
