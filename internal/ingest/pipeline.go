// Package ingest loads documents into SQLite and the vector index so they
// become searchable by the query engine.
package ingest

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/query"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// languageSampleRunes limits how much text the language detector sees.
const languageSampleRunes = 1000

// Sentinel errors for upload validation. Handlers map these to client errors.
var (
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrTooManyFiles     = errors.New("document limit reached")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrDocumentNotFound = errors.New("document not found")
)

var supportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Embedder turns texts into embedding vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Limits bounds what the pipeline accepts.
type Limits struct {
	// MaxFileSizeMB is the largest accepted file in megabytes.
	MaxFileSizeMB int
	// MaxFilesCount is the largest number of stored documents.
	MaxFilesCount int
}

// Pipeline ingests documents: it validates, chunks, embeds, and stores them
// in SQLite and the vector index.
type Pipeline struct {
	docRepo     storage.DocumentStore
	chunkRepo   storage.ChunkStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunker     *Chunker
	detector    *query.Detector
	limits      Limits
}

// NewPipeline creates an ingestion pipeline over the given collaborators.
func NewPipeline(
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunker *Chunker,
	detector *query.Detector,
	limits Limits,
) *Pipeline {
	return &Pipeline{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunker:     chunker,
		detector:    detector,
		limits:      limits,
	}
}

// IngestBytes ingests a single document given as raw content.
//
// Unchanged documents (same filename, same content hash) are skipped.
// Re-ingesting a changed document removes its old chunks from both stores
// before the new ones are written.
func (p *Pipeline) IngestBytes(ctx context.Context, filename string, content []byte) (*storage.DocumentRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := p.validate(ctx, filename, len(content)); err != nil {
		return nil, err
	}

	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := p.docRepo.GetByFilename(ctx, filename)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing document: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		logger.DebugContext(ctx, "skipping unchanged document", "filename", filename, "hash", hash)
		return existing, nil
	}

	meta, chunks, err := p.chunker.Chunk(content, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "document produced no chunks", "filename", filename)
		return nil, fmt.Errorf("document %q has no indexable content", filename)
	}

	language := p.detector.Detect(sampleText(chunks[0].Text))

	docID := uuid.New().String()
	if existing != nil {
		docID = existing.ID
	}

	doc := &storage.DocumentRecord{
		ID:        docID,
		Filename:  filename,
		Title:     meta.Title,
		Author:    meta.Author,
		Language:  language,
		SizeBytes: int64(len(content)),
		Hash:      hash,
	}
	if err := p.docRepo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to upsert document: %w", err)
	}

	if existing != nil {
		if err := p.removeChunks(ctx, docID); err != nil {
			return nil, err
		}
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		chunkID := uuid.New().String()

		record := &storage.ChunkRecord{
			ID:         chunkID,
			DocumentID: docID,
			ChunkIndex: chunk.Index,
			Text:       chunk.Text,
		}
		if err := p.chunkRepo.Insert(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to insert chunk: %w", err)
		}

		points[i] = vectorstore.Point{
			ID:  chunkID,
			Vec: embeddings[i],
			Meta: map[string]string{
				"document_id": docID,
				"filename":    filename,
				"title":       meta.Title,
				"author":      meta.Author,
				"language":    language,
				"chunk_index": strconv.Itoa(chunk.Index),
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return nil, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	logger.InfoContext(ctx, "document ingested",
		"filename", filename,
		"title", meta.Title,
		"language", language,
		"chunks", len(chunks),
	)
	return doc, nil
}

// IngestFile reads and ingests a single file from disk.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*storage.DocumentRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.IngestBytes(ctx, filepath.Base(path), content)
}

// IngestDir walks a directory and ingests every supported file.
// Per-file failures are logged and counted but do not stop the walk.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) error {
	logger := contextutil.LoggerFromContext(ctx)

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	logger.InfoContext(ctx, "starting directory ingest", "dir", dir, "files", len(paths))

	var successCount, errorCount int
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := p.IngestFile(ctx, path); err != nil {
			errorCount++
			logger.ErrorContext(ctx, "failed to ingest file", "path", path, "error", err)
			continue
		}
		successCount++
	}

	logger.InfoContext(ctx, "directory ingest completed",
		"files", len(paths),
		"success", successCount,
		"errors", errorCount,
	)

	if errorCount > 0 {
		return fmt.Errorf("ingest completed with %d errors", errorCount)
	}
	return nil
}

// DeleteDocument removes a document and its chunks from both stores.
func (p *Pipeline) DeleteDocument(ctx context.Context, filename string) error {
	doc, err := p.docRepo.GetByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, filename)
		}
		return fmt.Errorf("failed to look up document: %w", err)
	}

	if err := p.removeChunks(ctx, doc.ID); err != nil {
		return err
	}
	if err := p.docRepo.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// removeChunks deletes a document's chunks from the vector index and SQLite.
func (p *Pipeline) removeChunks(ctx context.Context, docID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	ids, err := p.chunkRepo.ListIDsByDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to list chunk IDs: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := p.vectorStore.Delete(ctx, p.collection, ids); err != nil {
		// New points overwrite stale ones on re-ingest; deletion from SQLite
		// below is what keeps the query path consistent.
		logger.WarnContext(ctx, "failed to delete vectors", "error", err, "count", len(ids))
	}
	if err := p.chunkRepo.DeleteByDocument(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// validate checks the filename extension, the size limit, and the stored
// document count. Replacing an existing document never counts against the
// document limit.
func (p *Pipeline) validate(ctx context.Context, filename string, size int) error {
	if !supportedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}

	if p.limits.MaxFileSizeMB > 0 && size > p.limits.MaxFileSizeMB*1024*1024 {
		return fmt.Errorf("%w: %d bytes, limit %d MB", ErrFileTooLarge, size, p.limits.MaxFileSizeMB)
	}

	if p.limits.MaxFilesCount > 0 {
		if _, err := p.docRepo.GetByFilename(ctx, filename); err == nil {
			return nil
		}

		docs, err := p.docRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to count documents: %w", err)
		}
		if len(docs) >= p.limits.MaxFilesCount {
			return fmt.Errorf("%w: %d documents, limit %d", ErrTooManyFiles, len(docs), p.limits.MaxFilesCount)
		}
	}
	return nil
}

func sampleText(text string) string {
	runes := []rune(text)
	if len(runes) > languageSampleRunes {
		return string(runes[:languageSampleRunes])
	}
	return text
}
