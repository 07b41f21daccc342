package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/logging"
	"github.com/gamemates/server/internal/services"
)

type MessageRequestHandler struct {
	conversationService services.ConversationServiceInterface
}

func NewMessageRequestHandler(conversationService services.ConversationServiceInterface) *MessageRequestHandler {
	return &MessageRequestHandler{conversationService: conversationService}
}

// List returns conversations awaiting the caller's acceptance.
func (h *MessageRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	requests, err := h.conversationService.PendingRequests(r.Context(), user.ID)
	if err != nil {
		logging.Error("Listing message requests failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, requests)
}

// Count returns how many requests are pending.
func (h *MessageRequestHandler) Count(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	requests, err := h.conversationService.PendingRequests(r.Context(), user.ID)
	if err != nil {
		logging.Error("Counting message requests failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, map[string]int{"count": len(requests)})
}

// Accept marks the caller's side of the conversation accepted.
func (h *MessageRequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	err = h.conversationService.Accept(r.Context(), user.ID, conversationID)
	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "Message request not found")
		return
	case errors.Is(err, services.ErrNotParticipant):
		writeError(w, http.StatusForbidden, "Not a conversation participant")
		return
	case err != nil:
		logging.Error("Accepting message request failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "Message request accepted")
}

// Decline removes the conversation along with its messages.
func (h *MessageRequestHandler) Decline(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	err = h.conversationService.Decline(r.Context(), user.ID, conversationID)
	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "Message request not found")
		return
	case errors.Is(err, services.ErrNotParticipant):
		writeError(w, http.StatusForbidden, "Not a conversation participant")
		return
	case err != nil:
		logging.Error("Declining message request failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "Message request declined")
}
