package handlers

import (
	"net/http"
	"strconv"

	"docqa/internal/contextutil"
	"docqa/internal/query"
)

// HistoryHandler serves and clears the recorded query history.
type HistoryHandler struct {
	engine query.Engine
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(engine query.Engine) *HistoryHandler {
	return &HistoryHandler{engine: engine}
}

// HistoryResponse represents the query history payload.
type HistoryResponse struct {
	Queries []query.Result `json:"queries"`
	Count   int            `json:"count"`
}

// List returns the most recent successful queries, newest last.
// The limit query parameter bounds the result; it defaults to 10.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	queries := h.engine.RecentHistory(limit)
	writeJSON(ctx, w, http.StatusOK, HistoryResponse{
		Queries: queries,
		Count:   len(queries),
	})
}

// Clear removes all recorded history.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.engine.ClearHistory()
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "query history cleared")
	w.WriteHeader(http.StatusNoContent)
}
