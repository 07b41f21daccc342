package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gamemates/server/internal/models"
)

// APIResponse is the envelope every JSON endpoint uses. Exactly one of Data,
// User, Message or Error is set alongside Success.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

func writeUser(w http.ResponseWriter, status int, user *models.User) {
	writeJSON(w, status, APIResponse{Success: true, User: user})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Error: message})
}
