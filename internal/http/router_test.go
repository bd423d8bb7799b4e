package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	genmocks "docqa/internal/generation/mocks"
	"docqa/internal/ingest"
	"docqa/internal/query"
	querymocks "docqa/internal/query/mocks"
	storemocks "docqa/internal/storage/mocks"
	vsmocks "docqa/internal/vectorstore/mocks"
)

func newTestDeps(t *testing.T) (*Deps, *querymocks.MockEngine, *vsmocks.MockVectorStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := querymocks.NewMockEngine(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	docs := storemocks.NewMockDocumentStore(ctrl)
	chunks := storemocks.NewMockChunkStore(ctrl)
	embedder := genmocks.NewMockEmbedder(ctrl)

	pipeline := ingest.NewPipeline(
		docs, chunks, embedder, store,
		"qa-documents",
		ingest.NewChunker(1024, 20),
		query.NewDetector(),
		ingest.Limits{},
	)

	return &Deps{
		Engine:           engine,
		Pipeline:         pipeline,
		DocRepo:          docs,
		VectorStore:      store,
		Collection:       "qa-documents",
		DefaultTopK:      5,
		DefaultThreshold: 0.7,
	}, engine, store
}

func TestRouterRoutes(t *testing.T) {
	deps, engine, store := newTestDeps(t)
	router := NewRouter(deps)

	engine.EXPECT().RecentHistory(gomock.Any()).Return([]query.Result{}).AnyTimes()
	store.EXPECT().CollectionExists(gomock.Any(), "qa-documents").Return(true, nil).AnyTimes()

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/v1/history", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/query", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
		}
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
}
