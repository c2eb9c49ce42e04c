package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookheaven-backend/internal/shared/pagination"
)

type Response struct {
	Success    bool             `json:"success"`
	Data       interface{}      `json:"data,omitempty"`
	Error      *Error           `json:"error,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithPagination normalizes meta before writing it. An empty result
// carries the zero meta, which clients read as "no results".
func SuccessWithPagination(c *gin.Context, data interface{}, meta pagination.Meta) {
	meta = pagination.Normalize(meta)
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: &meta,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}
