package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound     = "ORD001"
	ErrCodeOrderCannotCancel = "ORD002"
	ErrCodeInvalidStatus     = "ORD015"
	ErrCodeInvalidRequest    = "ORD017"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderCannotCancel = errors.New("order cannot be cancelled")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidRequest    = errors.New("invalid order request")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func NewOrderNotFoundError() *OrderError {
	return &OrderError{Code: ErrCodeOrderNotFound, Message: "Order not found", Err: ErrOrderNotFound}
}

func NewOrderCannotCancelError(status OrderStatus) *OrderError {
	return &OrderError{
		Code:    ErrCodeOrderCannotCancel,
		Message: "Order in status " + status.String() + " cannot be cancelled",
		Err:     ErrOrderCannotCancel,
	}
}

func NewInvalidStatusError(status string) *OrderError {
	return &OrderError{Code: ErrCodeInvalidStatus, Message: "Invalid order status " + status, Err: ErrInvalidStatus}
}

func NewInvalidRequestError(err error) *OrderError {
	return &OrderError{Code: ErrCodeInvalidRequest, Message: err.Error(), Err: ErrInvalidRequest}
}
