package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/services"
	"github.com/gamemates/server/internal/testutil"
)

func TestFeed(t *testing.T) {
	postService := &mockPostService{
		FeedFunc: func(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.PostWithUser, error) {
			return []*models.PostWithUser{
				{Post: models.Post{ID: uuid.New(), Content: "anyone up for valheim"}},
			}, nil
		},
	}
	handler := NewPostHandler(postService)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rr := httptest.NewRecorder()

	handler.Feed(rr, req)

	response := decodeSuccess(t, rr, http.StatusOK)
	posts, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("expected array data, got %T", response.Data)
	}
	testutil.AssertEqual(t, 1, len(posts), "feed length")
}

func TestFeed_PassesPagination(t *testing.T) {
	var gotLimit, gotOffset int
	postService := &mockPostService{
		FeedFunc: func(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.PostWithUser, error) {
			gotLimit = limit
			gotOffset = offset
			return nil, nil
		},
	}
	handler := NewPostHandler(postService)

	req := httptest.NewRequest(http.MethodGet, "/api/posts?limit=10&offset=5", nil)
	rr := httptest.NewRecorder()

	handler.Feed(rr, req)

	testutil.AssertStatusCode(t, rr, http.StatusOK)
	testutil.AssertEqual(t, 10, gotLimit, "limit")
	testutil.AssertEqual(t, 5, gotOffset, "offset")
}

func TestCreatePost(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "player1"}

	t.Run("success with default type", func(t *testing.T) {
		var gotParams models.CreatePostParams
		postService := &mockPostService{
			CreateFunc: func(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
				gotParams = params
				return &models.Post{ID: uuid.New(), UserID: params.UserID, Content: params.Content, Type: params.Type}, nil
			},
		}
		handler := NewPostHandler(postService)

		req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/posts", CreatePostRequest{
			Content: "  looking for a duo partner  ",
		})
		req = req.WithContext(SetUserInContext(req.Context(), user))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		decodeSuccess(t, rr, http.StatusCreated)
		testutil.AssertEqual(t, user.ID, gotParams.UserID, "post author")
		testutil.AssertEqual(t, "looking for a duo partner", gotParams.Content, "trimmed content")
		testutil.AssertEqual(t, models.PostTypeGeneral, gotParams.Type, "default post type")
	})

	t.Run("looking for friend with game name", func(t *testing.T) {
		var gotParams models.CreatePostParams
		postService := &mockPostService{
			CreateFunc: func(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
				gotParams = params
				return &models.Post{ID: uuid.New()}, nil
			},
		}
		handler := NewPostHandler(postService)

		game := "Deep Rock Galactic"
		req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/posts", CreatePostRequest{
			Content:  "need a fourth dwarf",
			PostType: string(models.PostTypeLookingForFriend),
			GameName: &game,
		})
		req = req.WithContext(SetUserInContext(req.Context(), user))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		decodeSuccess(t, rr, http.StatusCreated)
		testutil.AssertEqual(t, models.PostTypeLookingForFriend, gotParams.Type, "post type")
		testutil.AssertEqual(t, "Deep Rock Galactic", *gotParams.GameName, "game name")
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			request CreatePostRequest
			message string
		}{
			{"empty content", CreatePostRequest{Content: "   "}, "Content is required"},
			{"content too long", CreatePostRequest{Content: strings.Repeat("x", 501)}, "Content must be at most 500 characters"},
			{"content too long in runes", CreatePostRequest{Content: strings.Repeat("ş", 501)}, "Content must be at most 500 characters"},
			{"invalid type", CreatePostRequest{Content: "hi", PostType: "promoted"}, "Invalid post type"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler := NewPostHandler(&mockPostService{})

				req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/posts", tt.request)
				req = req.WithContext(SetUserInContext(req.Context(), user))
				rr := httptest.NewRecorder()

				handler.Create(rr, req)

				assertErrorResponse(t, rr, http.StatusBadRequest, tt.message)
			})
		}
	})

	t.Run("length limit counts characters, not bytes", func(t *testing.T) {
		postService := &mockPostService{
			CreateFunc: func(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
				return &models.Post{ID: uuid.New(), Content: params.Content}, nil
			},
		}
		handler := NewPostHandler(postService)

		// 500 two-byte runes: over 500 bytes but within the character limit.
		req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/posts", CreatePostRequest{
			Content: strings.Repeat("ü", 500),
		})
		req = req.WithContext(SetUserInContext(req.Context(), user))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		decodeSuccess(t, rr, http.StatusCreated)
	})

	t.Run("daily limit", func(t *testing.T) {
		postService := &mockPostService{
			CreateFunc: func(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
				return nil, services.ErrDailyPostLimit
			},
		}
		handler := NewPostHandler(postService)

		req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/posts", CreatePostRequest{Content: "fourth post today"})
		req = req.WithContext(SetUserInContext(req.Context(), user))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assertErrorResponse(t, rr, http.StatusTooManyRequests, "Daily post limit reached")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler := NewPostHandler(&mockPostService{})

		req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/posts", CreatePostRequest{Content: "hi"})
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assertErrorResponse(t, rr, http.StatusUnauthorized, "Not authenticated")
	})
}

func TestDeletePost(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	postID := uuid.New()

	t.Run("success", func(t *testing.T) {
		var deletedID uuid.UUID
		postService := &mockPostService{
			DeleteFunc: func(ctx context.Context, userID, id uuid.UUID) error {
				deletedID = id
				return nil
			},
		}
		handler := NewPostHandler(postService)

		req := authedRequest(http.MethodDelete, "/api/posts/"+postID.String(), user)
		req.SetPathValue("id", postID.String())
		rr := httptest.NewRecorder()

		handler.Delete(rr, req)

		decodeSuccess(t, rr, http.StatusOK)
		testutil.AssertEqual(t, postID, deletedID, "deleted post id")
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := NewPostHandler(&mockPostService{})

		req := authedRequest(http.MethodDelete, "/api/posts/not-a-uuid", user)
		req.SetPathValue("id", "not-a-uuid")
		rr := httptest.NewRecorder()

		handler.Delete(rr, req)

		assertErrorResponse(t, rr, http.StatusBadRequest, "Invalid post ID")
	})

	t.Run("not found", func(t *testing.T) {
		postService := &mockPostService{
			DeleteFunc: func(ctx context.Context, userID, id uuid.UUID) error {
				return services.ErrPostNotFound
			},
		}
		handler := NewPostHandler(postService)

		req := authedRequest(http.MethodDelete, "/api/posts/"+postID.String(), user)
		req.SetPathValue("id", postID.String())
		rr := httptest.NewRecorder()

		handler.Delete(rr, req)

		assertErrorResponse(t, rr, http.StatusNotFound, "Post not found")
	})

	t.Run("not owner", func(t *testing.T) {
		postService := &mockPostService{
			DeleteFunc: func(ctx context.Context, userID, id uuid.UUID) error {
				return services.ErrNotPostOwner
			},
		}
		handler := NewPostHandler(postService)

		req := authedRequest(http.MethodDelete, "/api/posts/"+postID.String(), user)
		req.SetPathValue("id", postID.String())
		rr := httptest.NewRecorder()

		handler.Delete(rr, req)

		assertErrorResponse(t, rr, http.StatusForbidden, "Not the post owner")
	})
}
