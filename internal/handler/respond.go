package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vasapolrittideah/auth-flow-api/internal/payload"
)

// response is the JSON envelope every endpoint answers with.
type response struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	User    *payload.UserResponse `json:"user,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, response{Success: false, Message: message})
}
