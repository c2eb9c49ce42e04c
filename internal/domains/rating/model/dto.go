package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"bookheaven-backend/internal/shared/pagination"
)

const maxReviewLen = 5000

// UpsertRatingRequest creates or overwrites the caller's rating of a work
type UpsertRatingRequest struct {
	WorkID    string  `json:"work_id"`
	EditionID *string `json:"edition_id"`
	Value     int     `json:"value"`
	Review    *string `json:"review"`
}

func (r UpsertRatingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WorkID, validation.Required, is.UUID),
		validation.Field(&r.EditionID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.Value, validation.Required, validation.Min(MinValue), validation.Max(MaxValue)),
		validation.Field(&r.Review, validation.RuneLength(0, maxReviewLen)),
	)
}

// ListRatingsRequest is bound from GET /works/:id/ratings
type ListRatingsRequest struct {
	pagination.Params
}
