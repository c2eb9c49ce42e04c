package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/book/model"
	"bookheaven-backend/internal/domains/book/service"
	"bookheaven-backend/internal/querybuilder"
	"bookheaven-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
	cfg     config.SearchConfig
}

func NewHandler(service service.ServiceInterface, cfg config.SearchConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// SearchBooks GET /api/v1/books?search=&tags=&authors=&works=&page=&limit=
func (h *Handler) SearchBooks(c *gin.Context) {
	var params querybuilder.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchBooks(c.Request.Context(), params.Criteria(h.cfg.DefaultLimit, h.cfg.MaxLimit))
	if err != nil {
		var bookErr *model.BookError
		if errors.As(err, &bookErr) {
			response.ErrorResponse(c, http.StatusBadRequest, bookErr.Code, bookErr.Message)
			return
		}
		response.InternalServerError(c, "Internal server error")
		return
	}

	response.SuccessWithPagination(c, result.Items, result.Pagination)
}
