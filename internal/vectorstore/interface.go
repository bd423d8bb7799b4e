package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docqa/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]string
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]string
}

// IndexStats describes the state of a collection.
type IndexStats struct {
	TotalVectors int    `json:"total_vectors"`
	Dimension    int    `json:"dimension"`
	Status       string `json:"status"`
}

// VectorStore defines the interface for vector storage operations.
// Metadata filters use key-equality semantics only.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional equality filters.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]string) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// Stats returns vector count and dimension for the collection.
	Stats(ctx context.Context, collection string) (IndexStats, error)
}
