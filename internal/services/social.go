package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrCannotBlockSelf  = errors.New("cannot block yourself")
	ErrUserBlocked      = errors.New("user is blocked")
)

// SocialService manages the follow and block graph. Follows are directed and
// created accepted; a block in either direction suppresses all interaction
// between the pair.
type SocialService struct {
	store store.Store
}

func NewSocialService(st store.Store) *SocialService {
	return &SocialService{store: st}
}

// Follow creates a follow edge. Following an already-followed user returns
// the existing edge rather than an error.
func (s *SocialService) Follow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	if followerID == followingID {
		return nil, ErrCannotFollowSelf
	}

	if _, err := s.store.Users().GetByID(ctx, followingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	blocked, err := s.store.Blocks().ExistsBetween(ctx, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("checking block status: %w", err)
	}
	if blocked {
		return nil, ErrUserBlocked
	}

	existing, err := s.store.Follows().Get(ctx, followerID, followingID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking existing follow: %w", err)
	}

	follow, err := s.store.Follows().Create(ctx, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("creating follow: %w", err)
	}
	return follow, nil
}

// Unfollow removes a follow edge. Unfollowing a user who was never followed
// is a no-op.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if _, err := s.store.Follows().Delete(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("deleting follow: %w", err)
	}
	return nil
}

func (s *SocialService) Followers(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	users, err := s.store.Follows().Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing followers: %w", err)
	}
	return users, nil
}

func (s *SocialService) Following(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	users, err := s.store.Follows().Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing following: %w", err)
	}
	return users, nil
}

// AreFriends reports whether the two users follow each other.
func (s *SocialService) AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	if _, err := s.store.Follows().Get(ctx, userID, otherID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking follow: %w", err)
	}
	if _, err := s.store.Follows().Get(ctx, otherID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking follow: %w", err)
	}
	return true, nil
}

// Block records a block and removes any follow edges between the pair, in
// both directions. Blocking an already-blocked user is a no-op.
func (s *SocialService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrCannotBlockSelf
	}

	if _, err := s.store.Users().GetByID(ctx, blockedID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("getting user: %w", err)
	}

	if _, err := s.store.Blocks().Create(ctx, blockerID, blockedID); err != nil {
		return fmt.Errorf("creating block: %w", err)
	}
	return nil
}

// Unblock removes the caller's own block record only; a block held by the
// other party stays in place.
func (s *SocialService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if _, err := s.store.Blocks().Delete(ctx, blockerID, blockedID); err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}
	return nil
}

func (s *SocialService) IsBlocked(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	blocked, err := s.store.Blocks().ExistsBetween(ctx, userID, otherID)
	if err != nil {
		return false, fmt.Errorf("checking block status: %w", err)
	}
	return blocked, nil
}

func (s *SocialService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	blocked, err := s.store.Blocks().ListBlocked(ctx, blockerID)
	if err != nil {
		return nil, fmt.Errorf("listing blocked users: %w", err)
	}
	return blocked, nil
}
