package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type postRepo struct {
	s *Store
}

func (r *postRepo) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	post := &models.Post{
		ID:        uuid.New(),
		UserID:    params.UserID,
		Content:   params.Content,
		Type:      params.Type,
		GameName:  params.GameName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.posts = append(r.s.posts, post)

	c := *post
	return &c, nil
}

func (r *postRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.posts {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// List walks the append-ordered slice backwards so ties in CreatedAt still
// come out newest first.
func (r *postRepo) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	posts := []*models.Post{}
	skipped := 0
	for i := len(r.s.posts) - 1; i >= 0; i-- {
		p := r.s.posts[i]
		if !p.IsActive {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(posts) >= limit {
			break
		}
		c := *p
		posts = append(posts, &c)
	}
	return posts, nil
}

func (r *postRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	posts := []*models.Post{}
	for i := len(r.s.posts) - 1; i >= 0; i-- {
		p := r.s.posts[i]
		if p.UserID == userID && p.IsActive {
			c := *p
			posts = append(posts, &c)
		}
	}
	return posts, nil
}

func (r *postRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.posts {
		if p.ID == id {
			p.IsActive = false
			p.UpdatedAt = r.s.now()
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *postRepo) CountToday(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.postCounts[quotaKey(userID, dayKey(r.s.now()))], nil
}

func (r *postRepo) IncrementToday(ctx context.Context, userID uuid.UUID, limit int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := quotaKey(userID, dayKey(r.s.now()))
	if r.s.postCounts[key] >= limit {
		return false, nil
	}
	r.s.postCounts[key]++
	return true, nil
}

func quotaKey(userID uuid.UUID, day string) string {
	return userID.String() + "_" + day
}
