package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

// MaxPostsPerDay caps post creation per author per UTC calendar day.
const MaxPostsPerDay = 3

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrDailyPostLimit = errors.New("daily post limit reached")
	ErrNotPostOwner   = errors.New("not the post owner")
)

type PostService struct {
	store store.Store
}

func NewPostService(st store.Store) *PostService {
	return &PostService{store: st}
}

// Create reserves a quota slot before inserting, so concurrent requests
// cannot overshoot the daily limit. A failed insert forfeits the slot.
func (s *PostService) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	ok, err := s.store.Posts().IncrementToday(ctx, params.UserID, MaxPostsPerDay)
	if err != nil {
		return nil, fmt.Errorf("reserving daily post slot: %w", err)
	}
	if !ok {
		return nil, ErrDailyPostLimit
	}

	post, err := s.store.Posts().Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	return post, nil
}

func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.store.Posts().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return post, nil
}

// Feed returns active posts newest first with their authors attached. Posts
// from users with a block in either direction relative to the viewer are
// filtered out; viewerID may be uuid.Nil.
func (s *PostService) Feed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.PostWithUser, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	posts, err := s.store.Posts().List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	authors := map[uuid.UUID]*models.User{}
	feed := []*models.PostWithUser{}
	for _, post := range posts {
		if viewerID != uuid.Nil && post.UserID != viewerID {
			blocked, err := s.store.Blocks().ExistsBetween(ctx, viewerID, post.UserID)
			if err != nil {
				return nil, fmt.Errorf("checking block status: %w", err)
			}
			if blocked {
				continue
			}
		}

		author, ok := authors[post.UserID]
		if !ok {
			author, err = s.store.Users().GetByID(ctx, post.UserID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("getting post author: %w", err)
			}
			authors[post.UserID] = author
		}

		feed = append(feed, &models.PostWithUser{Post: *post, User: author})
	}
	return feed, nil
}

func (s *PostService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	posts, err := s.store.Posts().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user posts: %w", err)
	}
	return posts, nil
}

// Delete soft-deletes a post. Only the author may delete it; deletion does
// not refund the daily quota.
func (s *PostService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.store.Posts().GetByID(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("getting post: %w", err)
	}

	if post.UserID != userID {
		return ErrNotPostOwner
	}

	if err := s.store.Posts().SoftDelete(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// RemainingToday reports how many posts the user may still create today.
func (s *PostService) RemainingToday(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.store.Posts().CountToday(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("checking daily post count: %w", err)
	}
	remaining := MaxPostsPerDay - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
