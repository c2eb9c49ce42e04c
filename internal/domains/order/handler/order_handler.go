package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookheaven-backend/internal/domains/order/model"
	"bookheaven-backend/internal/domains/order/service"
	"bookheaven-backend/internal/shared/middleware"
	"bookheaven-backend/internal/shared/response"
)

type OrderHandler struct {
	orderService service.ServiceInterface
}

func NewOrderHandler(orderService service.ServiceInterface) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListMyOrders GET /api/v1/orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.SearchOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.ListUserOrders(c.Request.Context(), userID, req)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	response.SuccessWithPagination(c, result.Items, result.Pagination)
}

// ListAllOrders GET /api/v1/admin/orders
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	var req model.SearchOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.ListAllOrders(c.Request.Context(), req)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	response.SuccessWithPagination(c, result.Items, result.Pagination)
}

// CancelOrder POST /api/v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orderID := c.Param("id")
	if _, err := uuid.Parse(orderID); err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req model.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), userID, orderID, req)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

func handleOrderError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if !errors.As(err, &orderErr) {
		response.InternalServerError(c, "Internal server error")
		return
	}

	switch orderErr.Code {
	case model.ErrCodeOrderNotFound:
		response.ErrorResponse(c, http.StatusNotFound, orderErr.Code, orderErr.Message)
	case model.ErrCodeOrderCannotCancel:
		response.ErrorResponse(c, http.StatusConflict, orderErr.Code, orderErr.Message)
	case model.ErrCodeInvalidStatus, model.ErrCodeInvalidRequest:
		response.ErrorResponse(c, http.StatusBadRequest, orderErr.Code, orderErr.Message)
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
