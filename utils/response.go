package utils

import (
	"encoding/json"
	"net/http"
)

type M map[string]any

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Kind            string `json:"kind"`
	Message         string `json:"message"`
	RedirectTo      string `json:"redirectTo,omitempty"`
	RedirectAfterMs int64  `json:"redirectAfterMs,omitempty"`
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, kind, msg string) {
	RespondWithJSON(w, code, M{"error": ErrorBody{Kind: kind, Message: msg}})
}

func RespondWithErrorBody(w http.ResponseWriter, code int, body ErrorBody) {
	RespondWithJSON(w, code, M{"error": body})
}
