// Package http wires the handlers into a chi router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/handlers"
	"docqa/internal/ingest"
	"docqa/internal/query"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine           query.Engine
	Pipeline         *ingest.Pipeline
	DocRepo          storage.DocumentStore
	VectorStore      vectorstore.VectorStore
	Collection       string
	DefaultTopK      int
	DefaultThreshold float64
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	queryHandler := handlers.NewQueryHandler(deps.Engine, deps.DefaultTopK, deps.DefaultThreshold)
	historyHandler := handlers.NewHistoryHandler(deps.Engine)
	statsHandler := handlers.NewStatsHandler(deps.Engine, deps.VectorStore, deps.Collection)
	documentsHandler := handlers.NewDocumentsHandler(deps.Pipeline, deps.DocRepo)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)

	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)

		r.Get("/history", historyHandler.List)
		r.Delete("/history", historyHandler.Clear)

		r.Method(http.MethodGet, "/stats", statsHandler)

		r.Post("/documents", documentsHandler.Upload)
		r.Get("/documents", documentsHandler.List)
		r.Delete("/documents/{filename}", documentsHandler.Delete)
	})

	r.Method(http.MethodGet, "/api/health", healthHandler)

	return r
}
