package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidRating  = "RATING001"
	ErrCodeWorkNotFound   = "RATING002"
	ErrCodeRatingNotFound = "RATING003"
)

var (
	ErrInvalidRating  = errors.New("invalid rating")
	ErrWorkNotFound   = errors.New("work not found")
	ErrRatingNotFound = errors.New("rating not found")
)

type RatingError struct {
	Code    string
	Message string
	Err     error
}

func (e *RatingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RatingError) Unwrap() error {
	return e.Err
}

func NewInvalidRatingError(err error) *RatingError {
	return &RatingError{Code: ErrCodeInvalidRating, Message: err.Error(), Err: ErrInvalidRating}
}

func NewWorkNotFoundError(workID string) *RatingError {
	return &RatingError{Code: ErrCodeWorkNotFound, Message: fmt.Sprintf("Work %s not found", workID), Err: ErrWorkNotFound}
}

func NewRatingNotFoundError() *RatingError {
	return &RatingError{Code: ErrCodeRatingNotFound, Message: "Rating not found", Err: ErrRatingNotFound}
}
