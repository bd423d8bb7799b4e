package storage

import "time"

// DocumentRecord represents an ingested document in the database.
type DocumentRecord struct {
	ID        string // UUID
	Filename  string // Original filename, unique
	Title     string // Extracted title
	Author    string // Extracted author, "Unknown" when absent
	Language  string // Detected content language code
	SizeBytes int64
	Hash      string // SHA256 hex string of file content
	CreatedAt time.Time
}

// ChunkRecord represents a chunk of document text, indexed for vector search.
// The ID doubles as the vector index point ID.
type ChunkRecord struct {
	ID         string // UUID
	DocumentID string // Foreign key to documents.id
	ChunkIndex int    // Index within document (starts at 0)
	Text       string
}
