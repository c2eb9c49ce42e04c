package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/tag/model"
	"bookheaven-backend/internal/domains/tag/service"
	"bookheaven-backend/internal/querybuilder"
	"bookheaven-backend/internal/shared/response"
)

type TagHandler struct {
	service service.ServiceInterface
	cfg     config.SearchConfig
}

func NewTagHandler(service service.ServiceInterface, cfg config.SearchConfig) *TagHandler {
	return &TagHandler{service: service, cfg: cfg}
}

// SearchTags GET /api/v1/tags
func (h *TagHandler) SearchTags(c *gin.Context) {
	var params querybuilder.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchTags(c.Request.Context(), params.Criteria(h.cfg.DefaultLimit, h.cfg.MaxLimit))
	if err != nil {
		var tagErr *model.TagError
		if errors.As(err, &tagErr) {
			response.ErrorResponse(c, http.StatusBadRequest, tagErr.Code, tagErr.Message)
			return
		}
		response.InternalServerError(c, "Internal server error")
		return
	}

	response.SuccessWithPagination(c, result.Items, result.Pagination)
}
