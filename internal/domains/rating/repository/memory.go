package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookheaven-backend/internal/domains/rating/model"
)

type ratingKey struct {
	userID    string
	workID    string
	editionID string
}

type memoryRatingRepository struct {
	mu      sync.Mutex
	works   map[string]struct{}
	ratings map[ratingKey]model.Rating
	now     func() time.Time
}

// NewMemoryRatingRepository creates a repository that knows workIDs
func NewMemoryRatingRepository(workIDs ...string) RatingRepository {
	works := make(map[string]struct{}, len(workIDs))
	for _, id := range workIDs {
		works[id] = struct{}{}
	}
	return &memoryRatingRepository{works: works, ratings: make(map[ratingKey]model.Rating), now: time.Now}
}

func keyOf(rt *model.Rating) ratingKey {
	k := ratingKey{userID: rt.UserID, workID: rt.WorkID}
	if rt.EditionID != nil {
		k.editionID = *rt.EditionID
	}
	return k
}

func (r *memoryRatingRepository) Upsert(_ context.Context, rating *model.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.works[rating.WorkID]; !ok {
		return model.ErrWorkNotFound
	}

	now := r.now()
	key := keyOf(rating)
	if existing, ok := r.ratings[key]; ok {
		rating.ID = existing.ID
		rating.LikeCount = existing.LikeCount
		rating.CreatedAt = existing.CreatedAt
	} else {
		rating.ID = uuid.NewString()
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now
	r.ratings[key] = *rating
	return nil
}

func (r *memoryRatingRepository) byWork(workID string) []model.Rating {
	var out []model.Rating
	for _, rt := range r.ratings {
		if rt.WorkID == workID {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memoryRatingRepository) ListByWork(_ context.Context, workID string, limit, offset int) ([]model.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.byWork(workID)
	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *memoryRatingRepository) CountByWork(_ context.Context, workID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byWork(workID)), nil
}

func (r *memoryRatingRepository) Breakdown(_ context.Context, workID string) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	breakdown := make(map[int]int)
	for _, rt := range r.byWork(workID) {
		breakdown[rt.Value]++
	}
	return breakdown, nil
}

func (r *memoryRatingRepository) Delete(_ context.Context, userID, ratingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, rt := range r.ratings {
		if rt.ID == ratingID && rt.UserID == userID {
			delete(r.ratings, k)
			return nil
		}
	}
	return model.ErrRatingNotFound
}
