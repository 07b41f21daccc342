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
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if _, err := s.store.Users().GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking email existence: %w", err)
	}

	if _, err := s.store.Users().GetByUsername(ctx, params.Username); err == nil {
		return nil, ErrUsernameAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking username existence: %w", err)
	}

	user, err := s.store.Users().Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateUserParams) (*models.User, error) {
	user, err := s.store.Users().Update(ctx, userID, params)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

func (s *UserService) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	err := s.store.Users().MarkEmailVerified(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	err := s.store.Users().TouchLastSeen(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Search finds users by username or display name, excluding the viewer and
// anyone with a block in either direction.
func (s *UserService) Search(ctx context.Context, viewerID uuid.UUID, query string, limit int) ([]*models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	matches, err := s.store.Users().Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	results := []*models.User{}
	for _, user := range matches {
		if user.ID == viewerID {
			continue
		}
		if viewerID != uuid.Nil {
			blocked, err := s.store.Blocks().ExistsBetween(ctx, viewerID, user.ID)
			if err != nil {
				return nil, fmt.Errorf("checking block status: %w", err)
			}
			if blocked {
				continue
			}
		}
		results = append(results, user)
	}
	return results, nil
}

// Profile assembles the public view of a user: counts, active posts and the
// relationship flags relative to the viewer. viewerID may be uuid.Nil for
// anonymous access. A block in either direction hides the profile entirely.
func (s *UserService) Profile(ctx context.Context, viewerID uuid.UUID, username string) (*models.UserProfile, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if viewerID != uuid.Nil && viewerID != user.ID {
		blocked, err := s.store.Blocks().ExistsBetween(ctx, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("checking block status: %w", err)
		}
		if blocked {
			return nil, ErrUserBlocked
		}
	}

	followers, err := s.store.Follows().FollowerCount(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("counting followers: %w", err)
	}
	following, err := s.store.Follows().FollowingCount(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("counting following: %w", err)
	}

	posts, err := s.store.Posts().ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	profile := &models.UserProfile{
		User:           *user,
		FollowersCount: followers,
		FollowingCount: following,
		PostsCount:     len(posts),
		Posts:          posts,
	}

	if viewerID != uuid.Nil && viewerID != user.ID {
		if _, err := s.store.Follows().Get(ctx, viewerID, user.ID); err == nil {
			profile.IsFollowing = true
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("checking follow status: %w", err)
		}
		if _, err := s.store.Follows().Get(ctx, user.ID, viewerID); err == nil {
			profile.IsFollowedBy = true
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("checking follow status: %w", err)
		}
	}

	return profile, nil
}
