package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		DisplayName:  params.DisplayName,
		IsActive:     true,
		LastSeen:     &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.users = append(r.s.users, user)

	c := *user
	return &c, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, params models.UpdateUserParams) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID != id {
			continue
		}
		if params.DisplayName != nil {
			u.DisplayName = *params.DisplayName
		}
		if params.Bio != nil {
			u.Bio = *params.Bio
		}
		if params.IsPrivate != nil {
			u.IsPrivate = *params.IsPrivate
		}
		u.UpdatedAt = r.s.now()
		c := *u
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == id {
			u.EmailVerified = true
			u.UpdatedAt = r.s.now()
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *userRepo) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == id {
			now := r.s.now()
			u.LastSeen = &now
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *userRepo) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	query = strings.ToLower(query)
	results := []*models.User{}
	for _, u := range r.s.users {
		if limit > 0 && len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(u.Username), query) ||
			strings.Contains(strings.ToLower(u.DisplayName), query) {
			c := *u
			results = append(results, &c)
		}
	}
	return results, nil
}
