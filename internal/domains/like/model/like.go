package model

import (
	"time"
)

// SubjectKind is the type of thing a like points at
type SubjectKind string

const (
	SubjectEdition SubjectKind = "edition"
	SubjectShelf   SubjectKind = "shelf"
	SubjectReview  SubjectKind = "review"
)

// SubjectKinds lists every likeable kind
func SubjectKinds() []SubjectKind {
	return []SubjectKind{SubjectEdition, SubjectShelf, SubjectReview}
}

// ParseSubjectKind validates a kind from a route parameter
func ParseSubjectKind(s string) (SubjectKind, error) {
	switch SubjectKind(s) {
	case SubjectEdition, SubjectShelf, SubjectReview:
		return SubjectKind(s), nil
	}
	return "", NewInvalidSubjectError(s)
}

// Table is the parent table holding the denormalised like_count
func (k SubjectKind) Table() string {
	switch k {
	case SubjectEdition:
		return "book_editions"
	case SubjectShelf:
		return "shelves"
	case SubjectReview:
		return "ratings"
	}
	return ""
}

// Subject identifies one likeable row
type Subject struct {
	Kind SubjectKind `json:"kind"`
	ID   string      `json:"id"`
}

// Like is one row of the likes table. Its presence is the liked state.
type Like struct {
	Subject
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Status is what clients seed their like cache with
type Status struct {
	Subject
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// ReconcileResult reports how many parent rows had a drifted count
type ReconcileResult struct {
	Kind    SubjectKind `json:"kind"`
	Updated int64       `json:"updated"`
}
