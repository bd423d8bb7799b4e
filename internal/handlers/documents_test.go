package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	genmocks "docqa/internal/generation/mocks"
	"docqa/internal/ingest"
	"docqa/internal/query"
	"docqa/internal/storage"
	storemocks "docqa/internal/storage/mocks"
	vsmocks "docqa/internal/vectorstore/mocks"
)

type documentsFixture struct {
	docs    *storemocks.MockDocumentStore
	chunks  *storemocks.MockChunkStore
	embed   *genmocks.MockEmbedder
	store   *vsmocks.MockVectorStore
	handler *DocumentsHandler
}

func newDocumentsFixture(t *testing.T) *documentsFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &documentsFixture{
		docs:   storemocks.NewMockDocumentStore(ctrl),
		chunks: storemocks.NewMockChunkStore(ctrl),
		embed:  genmocks.NewMockEmbedder(ctrl),
		store:  vsmocks.NewMockVectorStore(ctrl),
	}
	pipeline := ingest.NewPipeline(
		f.docs, f.chunks, f.embed, f.store,
		"qa-documents",
		ingest.NewChunker(1024, 20),
		query.NewDetector(),
		ingest.Limits{},
	)
	f.handler = NewDocumentsHandler(pipeline, f.docs)
	return f
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func TestDocumentsHandlerUpload(t *testing.T) {
	f := newDocumentsFixture(t)

	f.docs.EXPECT().GetByFilename(gomock.Any(), "policy.md").
		Return(nil, storage.ErrNotFound)
	f.docs.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	f.embed.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).
		Return([][]float32{{0.1}}, nil)
	f.chunks.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().Upsert(gomock.Any(), "qa-documents", gomock.Any()).Return(nil)

	body, contentType := multipartBody(t, "policy.md", "# Refund Policy\n\nRefunds are accepted within 30 days.")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	f.handler.Upload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp DocumentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filename != "policy.md" || resp.Title != "Refund Policy" {
		t.Errorf("response = %+v", resp)
	}
}

func TestDocumentsHandlerUploadMissingFile(t *testing.T) {
	f := newDocumentsFixture(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("other", "value")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	f.handler.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDocumentsHandlerUploadUnsupportedType(t *testing.T) {
	f := newDocumentsFixture(t)

	body, contentType := multipartBody(t, "report.pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	f.handler.Upload(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

func TestDocumentsHandlerList(t *testing.T) {
	f := newDocumentsFixture(t)

	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.docs.EXPECT().ListAll(gomock.Any()).Return([]*storage.DocumentRecord{
		{ID: "1", Filename: "a.md", Title: "Doc A", Language: "en", SizeBytes: 42, CreatedAt: created},
		{ID: "2", Filename: "b.md", Title: "Doc B", Language: "ru", SizeBytes: 99, CreatedAt: created},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	rec := httptest.NewRecorder()
	f.handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp DocumentListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Documents) != 2 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Documents[0].CreatedAt != "2026-03-10T12:00:00Z" {
		t.Errorf("created_at = %q", resp.Documents[0].CreatedAt)
	}
}

func TestDocumentsHandlerDelete(t *testing.T) {
	f := newDocumentsFixture(t)

	f.docs.EXPECT().GetByFilename(gomock.Any(), "policy.md").
		Return(&storage.DocumentRecord{ID: "doc-1", Filename: "policy.md"}, nil)
	f.chunks.EXPECT().ListIDsByDocument(gomock.Any(), "doc-1").Return([]string{"c1"}, nil)
	f.store.EXPECT().Delete(gomock.Any(), "qa-documents", []string{"c1"}).Return(nil)
	f.chunks.EXPECT().DeleteByDocument(gomock.Any(), "doc-1").Return(nil)
	f.docs.EXPECT().Delete(gomock.Any(), "doc-1").Return(nil)

	r := chi.NewRouter()
	r.Delete("/api/v1/documents/{filename}", f.handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/policy.md", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestDocumentsHandlerDeleteNotFound(t *testing.T) {
	f := newDocumentsFixture(t)

	f.docs.EXPECT().GetByFilename(gomock.Any(), "missing.md").
		Return(nil, storage.ErrNotFound)

	r := chi.NewRouter()
	r.Delete("/api/v1/documents/{filename}", f.handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/missing.md", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
