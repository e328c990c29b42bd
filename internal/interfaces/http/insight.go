package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"finsight/internal/domain/insight"
	"finsight/internal/shared/middleware"
)

// InsightService is the part of the engine the transport layer needs.
type InsightService interface {
	GenerateAll(ctx context.Context, userID int64) (*insight.GroupedInsights, error)
	ListGrouped(ctx context.Context, userID int64) (*insight.GroupedInsights, error)
}

type InsightHandler struct {
	engine InsightService
}

func NewInsightHandler(engine InsightService) *InsightHandler {
	return &InsightHandler{engine: engine}
}

// HandleListInsights returns the stored insight set grouped by domain
func (h *InsightHandler) HandleListInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	grouped, err := h.engine.ListGrouped(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing insights for user %d: %v", userID, err)
		http.Error(w, "Failed to list insights", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grouped)
}

// HandleGenerateInsights regenerates the full insight set and returns it
func (h *InsightHandler) HandleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	grouped, err := h.engine.GenerateAll(r.Context(), userID)
	if err != nil {
		log.Printf("Error generating insights for user %d: %v", userID, err)
		http.Error(w, "Failed to generate insights", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grouped)
}
