package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type followRepo struct {
	s *Store
}

func (r *followRepo) Get(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			c := *f
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *followRepo) Create(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	follow := &models.Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      models.FollowStatusAccepted,
		CreatedAt:   r.s.now(),
	}
	r.s.follows = append(r.s.follows, follow)

	c := *follow
	return &c, nil
}

func (r *followRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deleteFollowLocked(followerID, followingID), nil
}

func (s *Store) deleteFollowLocked(followerID, followingID uuid.UUID) bool {
	for i, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			return true
		}
	}
	return false
}

func (r *followRepo) Followers(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := []*models.User{}
	for _, f := range r.s.follows {
		if f.FollowingID == userID && f.Status == models.FollowStatusAccepted {
			if u := r.s.userByIDLocked(f.FollowerID); u != nil {
				users = append(users, u)
			}
		}
	}
	return users, nil
}

func (r *followRepo) Following(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := []*models.User{}
	for _, f := range r.s.follows {
		if f.FollowerID == userID && f.Status == models.FollowStatusAccepted {
			if u := r.s.userByIDLocked(f.FollowingID); u != nil {
				users = append(users, u)
			}
		}
	}
	return users, nil
}

func (r *followRepo) FollowerCount(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, f := range r.s.follows {
		if f.FollowingID == userID && f.Status == models.FollowStatusAccepted {
			count++
		}
	}
	return count, nil
}

func (r *followRepo) FollowingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, f := range r.s.follows {
		if f.FollowerID == userID && f.Status == models.FollowStatusAccepted {
			count++
		}
	}
	return count, nil
}

func (s *Store) userByIDLocked(id uuid.UUID) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			c := *u
			return &c
		}
	}
	return nil
}

type blockRepo struct {
	s *Store
}

func (r *blockRepo) Get(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			c := *b
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// Create removes any follow edges between the pair before inserting the
// block record. Re-blocking returns the existing record.
func (r *blockRepo) Create(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteFollowLocked(blockerID, blockedID)
	r.s.deleteFollowLocked(blockedID, blockerID)

	for _, b := range r.s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			c := *b
			return &c, nil
		}
	}

	block := &models.Block{
		ID:        uuid.New(),
		BlockerID: blockerID,
		BlockedID: blockedID,
		CreatedAt: r.s.now(),
	}
	r.s.blocks = append(r.s.blocks, block)

	c := *block
	return &c, nil
}

func (r *blockRepo) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, b := range r.s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			r.s.blocks = append(r.s.blocks[:i], r.s.blocks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *blockRepo) ExistsBetween(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.blockedBetweenLocked(userID, otherID), nil
}

func (s *Store) blockedBetweenLocked(userID, otherID uuid.UUID) bool {
	for _, b := range s.blocks {
		if (b.BlockerID == userID && b.BlockedID == otherID) ||
			(b.BlockerID == otherID && b.BlockedID == userID) {
			return true
		}
	}
	return false
}

func (r *blockRepo) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	blocked := []models.BlockedUser{}
	for _, b := range r.s.blocks {
		if b.BlockerID != blockerID {
			continue
		}
		if u := r.s.userByIDLocked(b.BlockedID); u != nil {
			blocked = append(blocked, models.BlockedUser{
				ID:          u.ID,
				Username:    u.Username,
				DisplayName: u.DisplayName,
				BlockedAt:   b.CreatedAt,
			})
		}
	}
	return blocked, nil
}
