package handlers

import (
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/query"
	"docqa/internal/vectorstore"
)

// StatsHandler reports query statistics together with the vector index state.
type StatsHandler struct {
	engine      query.Engine
	vectorStore vectorstore.VectorStore
	collection  string
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(engine query.Engine, vectorStore vectorstore.VectorStore, collection string) *StatsHandler {
	return &StatsHandler{
		engine:      engine,
		vectorStore: vectorStore,
		collection:  collection,
	}
}

// StatsResponse combines history statistics with vector index statistics.
type StatsResponse struct {
	Queries query.Stats             `json:"queries"`
	Index   *vectorstore.IndexStats `json:"index,omitempty"`
}

// ServeHTTP returns aggregate statistics.
// Index statistics are best-effort: when the vector store is unreachable the
// query statistics are still returned and the index section is omitted.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	resp := StatsResponse{
		Queries: h.engine.Statistics(),
	}

	indexStats, err := h.vectorStore.Stats(ctx, h.collection)
	if err != nil {
		logger.WarnContext(ctx, "failed to get index stats", "error", err)
	} else {
		resp.Index = &indexStats
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
