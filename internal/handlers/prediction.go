package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/C241-PS090/backend-api/internal/services"
)

// PredictionHandler serves per-user prediction lookups.
type PredictionHandler struct {
	predictionService *services.PredictionService
}

func NewPredictionHandler(predictionService *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// ListByUser returns all predictions for a user. The route carries no
// auth guard; any caller knowing a userId can read its predictions.
func (h *PredictionHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	predictions, err := h.predictionService.ListByUserID(r.Context(), userID)
	if err != nil {
		writeErrorDetail(w, http.StatusInternalServerError, "Error getting predictions", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Predictions retrieved successfully",
		Data:    predictions,
	})
}
