package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/C241-PS090/backend-api/internal/auth"
)

type contextKey string

const contextClaimsKey contextKey = "claims"

func claimsFromContext(ctx context.Context) (auth.Claims, error) {
	claims, ok := ctx.Value(contextClaimsKey).(auth.Claims)
	if !ok {
		return auth.Claims{}, errors.New("missing claims")
	}
	return claims, nil
}

// MessageResponse is the common success payload.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the common failure payload. Error carries backend
// detail on 500s, matching the API's historical shape.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// userEnvelope pairs a user id with its record, the shape the API
// returns for single-user lookups.
type userEnvelope struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

func writeErrorDetail(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, ErrorResponse{Message: message, Error: err.Error()})
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
