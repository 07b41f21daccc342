package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/logging"
	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/services"
)

type UserHandler struct {
	userService         services.UserServiceInterface
	socialService       services.SocialServiceInterface
	notificationService services.NotificationServiceInterface
}

func NewUserHandler(userService services.UserServiceInterface, socialService services.SocialServiceInterface, notificationService services.NotificationServiceInterface) *UserHandler {
	return &UserHandler{
		userService:         userService,
		socialService:       socialService,
		notificationService: notificationService,
	}
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	IsPrivate   *bool   `json:"is_private"`
}

// UpdateMe applies a partial profile update to the authenticated user.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		if trimmed == "" || utf8.RuneCountInString(trimmed) > 100 {
			writeError(w, http.StatusBadRequest, "Display name must be between 1 and 100 characters")
			return
		}
		req.DisplayName = &trimmed
	}
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > 160 {
		writeError(w, http.StatusBadRequest, "Bio must be at most 160 characters")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, models.UpdateUserParams{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		IsPrivate:   req.IsPrivate,
	})
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		logging.Error("Updating profile failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeUser(w, http.StatusOK, updated)
}

// Search finds users matching the q parameter.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	viewerID := uuid.Nil
	if user != nil {
		viewerID = user.ID
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	results, err := h.userService.Search(r.Context(), viewerID, query, 20)
	if err != nil {
		logging.Error("Searching users failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, results)
}

// Profile returns the public view of a user plus relationship flags.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user := GetUserFromContext(r.Context())
	viewerID := uuid.Nil
	if user != nil {
		viewerID = user.ID
	}

	profile, err := h.userService.Profile(r.Context(), viewerID, username)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if errors.Is(err, services.ErrUserBlocked) {
		writeError(w, http.StatusForbidden, "Cannot view this profile")
		return
	}
	if err != nil {
		logging.Error("Building profile failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, profile)
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	follow, err := h.socialService.Follow(r.Context(), user.ID, target.ID)
	switch {
	case errors.Is(err, services.ErrCannotFollowSelf):
		writeError(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	case errors.Is(err, services.ErrUserBlocked):
		writeError(w, http.StatusForbidden, "Cannot follow this user")
		return
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		logging.Error("Following user failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	fromID := user.ID
	if err := h.notificationService.Notify(r.Context(), models.CreateNotificationParams{
		UserID:     target.ID,
		Type:       models.NotificationTypeFollow,
		FromUserID: &fromID,
	}); err != nil {
		logging.Error("Creating follow notification failed", map[string]interface{}{"error": err.Error()})
	}

	writeData(w, http.StatusOK, follow)
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	if err := h.socialService.Unfollow(r.Context(), user.ID, target.ID); err != nil {
		logging.Error("Unfollowing user failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "Unfollowed")
}

func (h *UserHandler) Block(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	err := h.socialService.Block(r.Context(), user.ID, target.ID)
	switch {
	case errors.Is(err, services.ErrCannotBlockSelf):
		writeError(w, http.StatusBadRequest, "Cannot block yourself")
		return
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		logging.Error("Blocking user failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "User blocked")
}

func (h *UserHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	if err := h.socialService.Unblock(r.Context(), user.ID, target.ID); err != nil {
		logging.Error("Unblocking user failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "User unblocked")
}

func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	users, err := h.socialService.Followers(r.Context(), target.ID)
	if err != nil {
		logging.Error("Listing followers failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, users)
}

func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	users, err := h.socialService.Following(r.Context(), target.ID)
	if err != nil {
		logging.Error("Listing following failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, users)
}

// Blocked lists the users the caller has blocked.
func (h *UserHandler) Blocked(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	blocked, err := h.socialService.ListBlocked(r.Context(), user.ID)
	if err != nil {
		logging.Error("Listing blocked users failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, blocked)
}

func (h *UserHandler) resolveTarget(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	username := r.PathValue("username")

	target, err := h.userService.GetByUsername(r.Context(), username)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		logging.Error("Resolving user failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return target, true
}
