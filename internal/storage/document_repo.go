package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docqa/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Upsert inserts a document or replaces the record with the same filename.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// GetByFilename gets a document by its filename. Returns ErrNotFound if not found.
	GetByFilename(ctx context.Context, filename string) (*DocumentRecord, error)
	// ListAll returns all documents ordered by creation time.
	ListAll(ctx context.Context) ([]*DocumentRecord, error)
	// Delete removes a document by ID; chunks cascade.
	Delete(ctx context.Context, id string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert inserts a document or replaces the record with the same filename.
// The doc.ID must be set (UUID) before calling this method.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, title, author, language, size_bytes, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(filename) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			language = excluded.language,
			size_bytes = excluded.size_bytes,
			hash = excluded.hash`,
		doc.ID, doc.Filename, doc.Title, doc.Author, doc.Language, doc.SizeBytes, doc.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// GetByFilename gets a document by its filename. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByFilename(ctx context.Context, filename string) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, filename, title, author, language, size_bytes, hash, created_at
		 FROM documents WHERE filename = ?`,
		filename,
	).Scan(&doc.ID, &doc.Filename, &doc.Title, &doc.Author, &doc.Language, &doc.SizeBytes, &doc.Hash, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// ListAll returns all documents ordered by creation time.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, filename, title, author, language, size_bytes, hash, created_at
		 FROM documents ORDER BY created_at, filename`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Title, &doc.Author, &doc.Language, &doc.SizeBytes, &doc.Hash, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// Delete removes a document by ID; chunk rows cascade via the foreign key.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
