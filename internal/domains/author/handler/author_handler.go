package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/author/model"
	"bookheaven-backend/internal/domains/author/service"
	"bookheaven-backend/internal/querybuilder"
	"bookheaven-backend/internal/shared/response"
)

type AuthorHandler struct {
	service service.ServiceInterface
	cfg     config.SearchConfig
}

func NewAuthorHandler(service service.ServiceInterface, cfg config.SearchConfig) *AuthorHandler {
	return &AuthorHandler{service: service, cfg: cfg}
}

// SearchAuthors GET /api/v1/authors
func (h *AuthorHandler) SearchAuthors(c *gin.Context) {
	var params querybuilder.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchAuthors(c.Request.Context(), params.Criteria(h.cfg.DefaultLimit, h.cfg.MaxLimit))
	if err != nil {
		var authorErr *model.AuthorError
		if errors.As(err, &authorErr) {
			response.ErrorResponse(c, http.StatusBadRequest, authorErr.Code, authorErr.Message)
			return
		}
		response.InternalServerError(c, "Internal server error")
		return
	}

	response.SuccessWithPagination(c, result.Items, result.Pagination)
}
