// internal/server/handlers/trend.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// TrendSource loads the current scored trend batch.
type TrendSource interface {
	Load(ctx context.Context) ([]trend.Trend, error)
}

// HistorySource loads weekly snapshot history for one trend label.
type HistorySource interface {
	LoadHistory(ctx context.Context, label string) ([]trend.Snapshot, error)
}

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	trends  TrendSource
	history HistorySource
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(trends TrendSource, history HistorySource) *TrendHandler {
	return &TrendHandler{
		trends:  trends,
		history: history,
	}
}

// GetTrends returns the current scored trends, filtered by query params
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.trends.Load(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load trends", err)
		return
	}

	// Parse query parameters
	minScore, _ := strconv.ParseFloat(r.URL.Query().Get("min_score"), 64)
	entityType := r.URL.Query().Get("entity_type")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	filtered := make([]trend.Trend, 0, len(trends))
	for _, t := range trends {
		if t.Score < minScore {
			continue
		}
		if entityType != "" && t.EntityType != entityType {
			continue
		}
		filtered = append(filtered, t)
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	respondWithJSON(w, http.StatusOK, filtered)
}

// GetTrendHistory returns the weekly snapshot history for one trend label
func (h *TrendHandler) GetTrendHistory(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")
	if label == "" {
		respondWithError(w, http.StatusBadRequest, "Missing label parameter", nil)
		return
	}

	history, err := h.history.LoadHistory(r.Context(), label)
	if err != nil {
		if errors.Is(err, trend.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Trend has no history", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to load history", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil && code >= 500 {
		response["detail"] = err.Error()
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
