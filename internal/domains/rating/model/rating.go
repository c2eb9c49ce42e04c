package model

import (
	"math"
	"time"
)

const (
	MinValue = 1
	MaxValue = 5
)

// Rating is one user's 1-5 score for a work, optionally for one edition
type Rating struct {
	ID        string    `json:"id"`
	WorkID    string    `json:"work_id"`
	EditionID *string   `json:"edition_id,omitempty"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value"`
	Review    *string   `json:"review,omitempty"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Statistics summarises the ratings of a work
type Statistics struct {
	WorkID    string      `json:"work_id"`
	Total     int         `json:"total"`
	Average   float64     `json:"average"`
	Breakdown map[int]int `json:"breakdown"`
}

// NewStatistics computes statistics from a value -> count breakdown
func NewStatistics(workID string, breakdown map[int]int) Statistics {
	stats := Statistics{WorkID: workID, Breakdown: make(map[int]int, MaxValue)}
	sum := 0
	for v := MinValue; v <= MaxValue; v++ {
		n := breakdown[v]
		stats.Breakdown[v] = n
		stats.Total += n
		sum += v * n
	}
	if stats.Total > 0 {
		// one decimal, like ROUND(AVG(value)::numeric, 1)
		stats.Average = math.Round(float64(sum)/float64(stats.Total)*10) / 10
	}
	return stats
}
