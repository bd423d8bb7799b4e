package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/query"
)

// QueryHandler handles question answering requests.
type QueryHandler struct {
	engine           query.Engine
	defaultTopK      int
	defaultThreshold float64
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine query.Engine, defaultTopK int, defaultThreshold float64) *QueryHandler {
	return &QueryHandler{
		engine:           engine,
		defaultTopK:      defaultTopK,
		defaultThreshold: defaultThreshold,
	}
}

// QueryRequest represents the HTTP request payload for a question.
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
	// Threshold overrides the configured similarity threshold when set.
	Threshold *float64          `json:"threshold,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
}

// ServeHTTP answers a question over the ingested documents.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(ctx, w, http.StatusBadRequest, "Question is required")
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = h.defaultTopK
	}
	threshold := h.defaultThreshold
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			writeError(ctx, w, http.StatusBadRequest, "Threshold must be between 0 and 1")
			return
		}
		threshold = *req.Threshold
	}

	result, err := h.engine.Process(ctx, query.Request{
		Text:      req.Question,
		TopK:      topK,
		Threshold: threshold,
		Filters:   req.Filters,
	})
	if err != nil {
		h.handleEngineError(w, r, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// handleEngineError maps engine errors to HTTP status codes.
func (h *QueryHandler) handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "query engine error", "error", err)

	if errors.Is(err, query.ErrIndexNotReady) {
		writeError(ctx, w, http.StatusServiceUnavailable, err.Error())
		return
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "vector search"), strings.Contains(errMsg, "collection"):
		writeError(ctx, w, http.StatusServiceUnavailable, "Vector store unavailable")
	case strings.Contains(errMsg, "embed"), strings.Contains(errMsg, "chat completion"):
		writeError(ctx, w, http.StatusBadGateway, "External service error")
	default:
		writeError(ctx, w, http.StatusInternalServerError, "Failed to process query")
	}
}
