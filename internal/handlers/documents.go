package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docqa/internal/contextutil"
	"docqa/internal/ingest"
	"docqa/internal/storage"
)

// maxUploadMemoryBytes bounds how much of a multipart upload is held in memory.
const maxUploadMemoryBytes = 10 << 20

// DocumentsHandler manages document uploads, listing, and deletion.
type DocumentsHandler struct {
	pipeline *ingest.Pipeline
	docRepo  storage.DocumentStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(pipeline *ingest.Pipeline, docRepo storage.DocumentStore) *DocumentsHandler {
	return &DocumentsHandler{
		pipeline: pipeline,
		docRepo:  docRepo,
	}
}

// DocumentResponse represents a stored document.
type DocumentResponse struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Language  string `json:"language"`
	SizeBytes int64  `json:"size_bytes"`
	CreatedAt string `json:"created_at"`
}

// DocumentListResponse represents the document listing payload.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Count     int                `json:"count"`
}

// Upload ingests a document sent as multipart form data under the "file" field.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemoryBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "A file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	doc, err := h.pipeline.IngestBytes(ctx, header.Filename, content)
	if err != nil {
		h.handleIngestError(w, r, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, toDocumentResponse(doc))
}

// List returns all stored documents ordered by creation time.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := h.docRepo.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	resp := DocumentListResponse{
		Documents: make([]DocumentResponse, 0, len(docs)),
		Count:     len(docs),
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toDocumentResponse(doc))
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

// Delete removes a document and its indexed chunks.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	filename := chi.URLParam(r, "filename")
	if filename == "" {
		writeError(ctx, w, http.StatusBadRequest, "Filename is required")
		return
	}

	if err := h.pipeline.DeleteDocument(ctx, filename); err != nil {
		if errors.Is(err, ingest.ErrDocumentNotFound) {
			writeError(ctx, w, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to delete document", "filename", filename, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleIngestError maps pipeline errors to HTTP status codes.
func (h *DocumentsHandler) handleIngestError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "ingest error", "error", err)

	switch {
	case errors.Is(err, ingest.ErrUnsupportedType):
		writeError(ctx, w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, ingest.ErrFileTooLarge):
		writeError(ctx, w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ingest.ErrTooManyFiles):
		writeError(ctx, w, http.StatusBadRequest, err.Error())
	default:
		writeError(ctx, w, http.StatusInternalServerError, "Failed to ingest document")
	}
}

func toDocumentResponse(doc *storage.DocumentRecord) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Filename:  doc.Filename,
		Title:     doc.Title,
		Author:    doc.Author,
		Language:  doc.Language,
		SizeBytes: doc.SizeBytes,
		CreatedAt: doc.CreatedAt.UTC().Format(time.RFC3339),
	}
}
