package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/logging"
	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/services"
)

// Limits count runes, not bytes, so non-ASCII text is not penalized.
const maxPostContentLength = 500

type PostHandler struct {
	postService services.PostServiceInterface
}

func NewPostHandler(postService services.PostServiceInterface) *PostHandler {
	return &PostHandler{postService: postService}
}

type CreatePostRequest struct {
	Content  string  `json:"content"`
	PostType string  `json:"post_type"`
	GameName *string `json:"game_name"`
}

// Feed returns active posts newest first.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	viewerID := uuid.Nil
	if user != nil {
		viewerID = user.ID
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	feed, err := h.postService.Feed(r.Context(), viewerID, limit, offset)
	if err != nil {
		logging.Error("Listing feed failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, feed)
}

// Create publishes a post, subject to the daily limit.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if utf8.RuneCountInString(req.Content) > maxPostContentLength {
		writeError(w, http.StatusBadRequest, "Content must be at most 500 characters")
		return
	}

	postType := models.PostType(req.PostType)
	switch postType {
	case "":
		postType = models.PostTypeGeneral
	case models.PostTypeGeneral, models.PostTypeLookingForFriend:
	default:
		writeError(w, http.StatusBadRequest, "Invalid post type")
		return
	}

	post, err := h.postService.Create(r.Context(), models.CreatePostParams{
		UserID:   user.ID,
		Content:  req.Content,
		Type:     postType,
		GameName: req.GameName,
	})
	if errors.Is(err, services.ErrDailyPostLimit) {
		writeError(w, http.StatusTooManyRequests, "Daily post limit reached")
		return
	}
	if err != nil {
		logging.Error("Creating post failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusCreated, post)
}

// Delete soft-deletes the caller's own post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	err = h.postService.Delete(r.Context(), user.ID, postID)
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
		return
	case errors.Is(err, services.ErrNotPostOwner):
		writeError(w, http.StatusForbidden, "Not the post owner")
		return
	case err != nil:
		logging.Error("Deleting post failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "Post deleted")
}
