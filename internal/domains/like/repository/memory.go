package repository

import (
	"context"
	"sync"

	"bookheaven-backend/internal/domains/like/model"
)

type likeKey struct {
	userID  string
	subject model.Subject
}

// memoryLikeRepository keeps likes and parent counts in process
type memoryLikeRepository struct {
	mu     sync.Mutex
	likes  map[likeKey]struct{}
	counts map[model.Subject]int
}

// NewMemoryLikeRepository creates a repository whose known subjects and their
// stored like_count are given by counts
func NewMemoryLikeRepository(counts map[model.Subject]int) LikeRepository {
	r := &memoryLikeRepository{
		likes:  make(map[likeKey]struct{}),
		counts: make(map[model.Subject]int, len(counts)),
	}
	for s, n := range counts {
		r.counts[s] = n
	}
	return r
}

func (r *memoryLikeRepository) CheckLiked(_ context.Context, userID string, subject model.Subject) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.likes[likeKey{userID, subject}]
	return ok, nil
}

func (r *memoryLikeRepository) GetStatus(_ context.Context, userID string, subject model.Subject) (*model.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, ok := r.counts[subject]
	if !ok {
		return nil, model.ErrSubjectNotFound
	}
	_, liked := r.likes[likeKey{userID, subject}]
	return &model.Status{Subject: subject, Liked: liked, LikeCount: count}, nil
}

func (r *memoryLikeRepository) ToggleLiked(_ context.Context, userID string, subject model.Subject) (*model.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, ok := r.counts[subject]
	if !ok {
		return nil, model.ErrSubjectNotFound
	}

	key := likeKey{userID, subject}
	_, liked := r.likes[key]
	if liked {
		delete(r.likes, key)
		count--
	} else {
		r.likes[key] = struct{}{}
		count++
	}
	if count < 0 {
		count = 0
	}
	r.counts[subject] = count

	return &model.Status{Subject: subject, Liked: !liked, LikeCount: count}, nil
}

func (r *memoryLikeRepository) ReconcileCounts(_ context.Context, kind model.SubjectKind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	actual := make(map[model.Subject]int)
	for k := range r.likes {
		actual[k.subject]++
	}

	var updated int64
	for s, n := range r.counts {
		if s.Kind != kind || n == actual[s] {
			continue
		}
		r.counts[s] = actual[s]
		updated++
	}
	return updated, nil
}
