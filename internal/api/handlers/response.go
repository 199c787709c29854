package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/isdelr/users-api/internal/catalog"
	"github.com/rs/zerolog/log"
)

// SuccessResponse is the envelope for successful API calls.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorResponse is the envelope for failed API calls.
type ErrorResponse struct {
	Error catalog.Descriptor `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Int("status", status).Msg("Failed to encode response body")
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, SuccessResponse{Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, d catalog.Descriptor) {
	writeJSON(w, status, ErrorResponse{Error: d})
}
