package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/logging"
	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/services"
)

const maxMessageContentLength = 1000

type ConversationHandler struct {
	conversationService services.ConversationServiceInterface
	messageService      services.MessageServiceInterface
	notificationService services.NotificationServiceInterface
}

func NewConversationHandler(conversationService services.ConversationServiceInterface, messageService services.MessageServiceInterface, notificationService services.NotificationServiceInterface) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		messageService:      messageService,
		notificationService: notificationService,
	}
}

type StartConversationRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type StartConversationResponse struct {
	Conversation *models.Conversation `json:"conversation"`
	NeedsRequest bool                 `json:"needs_request"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

// List returns the caller's accepted conversations, newest activity first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	summaries, err := h.conversationService.List(r.Context(), user.ID)
	if err != nil {
		logging.Error("Listing conversations failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, summaries)
}

// Start finds or creates the conversation with another user. Creating one
// with a non-follower leaves it as a pending message request on their side.
func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	conv, needsRequest, err := h.conversationService.FindOrCreate(r.Context(), user.ID, req.UserID)
	switch {
	case errors.Is(err, services.ErrCannotMessageSelf):
		writeError(w, http.StatusBadRequest, "Cannot message yourself")
		return
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, services.ErrUserBlocked):
		writeError(w, http.StatusForbidden, "Cannot message this user")
		return
	case err != nil:
		logging.Error("Starting conversation failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if needsRequest {
		fromID := user.ID
		refID := conv.ID
		if err := h.notificationService.Notify(r.Context(), models.CreateNotificationParams{
			UserID:      req.UserID,
			Type:        models.NotificationTypeMessageRequest,
			FromUserID:  &fromID,
			ReferenceID: &refID,
		}); err != nil {
			logging.Error("Creating message request notification failed", map[string]interface{}{"error": err.Error()})
		}
	}

	writeData(w, http.StatusOK, StartConversationResponse{
		Conversation: conv,
		NeedsRequest: needsRequest,
	})
}

// Messages returns a conversation's messages oldest first and marks them
// read for the caller.
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	messages, err := h.messageService.List(r.Context(), conversationID, user.ID, limit, offset)
	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	case errors.Is(err, services.ErrNotParticipant):
		writeError(w, http.StatusForbidden, "Not a conversation participant")
		return
	case err != nil:
		logging.Error("Listing messages failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.messageService.MarkRead(r.Context(), conversationID, user.ID); err != nil {
		logging.Error("Marking messages read failed", map[string]interface{}{"error": err.Error()})
	}

	writeData(w, http.StatusOK, messages)
}

// SendMessage appends a message to the conversation.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if len(req.Content) > maxMessageContentLength {
		writeError(w, http.StatusBadRequest, "Content must be at most 1000 characters")
		return
	}

	msg, err := h.messageService.Send(r.Context(), conversationID, user.ID, req.Content)
	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	case errors.Is(err, services.ErrNotParticipant):
		writeError(w, http.StatusForbidden, "Not a conversation participant")
		return
	case err != nil:
		logging.Error("Sending message failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusCreated, msg)
}

// UnreadCount returns the caller's total unread message count.
func (h *ConversationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	count, err := h.messageService.TotalUnread(r.Context(), user.ID)
	if err != nil {
		logging.Error("Counting unread messages failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, map[string]int{"count": count})
}
