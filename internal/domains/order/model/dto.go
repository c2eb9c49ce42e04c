package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookheaven-backend/internal/shared/pagination"
)

// SearchOrdersRequest is bound from GET /orders and GET /admin/orders
type SearchOrdersRequest struct {
	Search string `form:"search"`
	Status string `form:"status"`
	pagination.Params
}

func (r SearchOrdersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Search, validation.RuneLength(0, 200)),
		validation.Field(&r.Status, validation.By(func(v interface{}) error {
			if s := v.(string); s != "" && !OrderStatus(s).IsValid() {
				return NewInvalidStatusError(s)
			}
			return nil
		})),
	)
}

// CancelOrderRequest is the body of POST /orders/:id/cancel
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (r CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.RuneLength(1, 500)),
	)
}
