// Package generation retrieves relevant document chunks for a question and
// produces an answer grounded in them.
package generation

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_clients.go -package=mocks docqa/internal/generation Embedder,ChatClient

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/query"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// Embedder turns texts into embedding vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatClient produces a completion for a system-prompted user message.
type ChatClient interface {
	Chat(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Generator implements query.Generator on top of an embedding model, a vector
// store, a chunk store, and a chat model.
type Generator struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	chunks     storage.ChunkStore
	chat       ChatClient
	collection string
}

// NewGenerator creates a generator over the given collaborators.
func NewGenerator(embedder Embedder, store vectorstore.VectorStore, chunks storage.ChunkStore, chat ChatClient, collection string) *Generator {
	return &Generator{
		embedder:   embedder,
		store:      store,
		chunks:     chunks,
		chat:       chat,
		collection: collection,
	}
}

// Generate embeds the question, searches the vector store, loads the matched
// chunk texts, and asks the chat model for an answer grounded in them.
//
// Matches whose chunk text cannot be loaded are skipped with a warning rather
// than failing the whole query. When the collection does not exist yet the
// error wraps query.ErrIndexNotReady.
func (g *Generator) Generate(ctx context.Context, req query.GenerateRequest) (query.GenerateResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := g.store.CollectionExists(ctx, g.collection)
	if err != nil {
		return query.GenerateResult{}, fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		return query.GenerateResult{}, fmt.Errorf("collection %q does not exist: %w", g.collection, query.ErrIndexNotReady)
	}

	vectors, err := g.embedder.EmbedTexts(ctx, []string{req.Question})
	if err != nil {
		return query.GenerateResult{}, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(vectors) != 1 {
		return query.GenerateResult{}, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}

	results, err := g.store.Search(ctx, g.collection, vectors[0], req.TopK, req.Filters)
	if err != nil {
		return query.GenerateResult{}, fmt.Errorf("vector search failed: %w", err)
	}

	matches := make([]query.Match, 0, len(results))
	for _, res := range results {
		chunk, err := g.chunks.GetByID(ctx, res.PointID)
		if err != nil {
			logger.WarnContext(ctx, "skipping match without chunk text",
				"point_id", res.PointID,
				"error", err,
			)
			continue
		}

		score := float64(res.Score)
		matches = append(matches, query.Match{
			Score:    &score,
			Text:     chunk.Text,
			Metadata: res.Meta,
		})
	}

	if len(matches) == 0 {
		logger.InfoContext(ctx, "search returned no usable matches", "results", len(results))
		return query.GenerateResult{Matches: nil}, nil
	}

	answer, err := g.chat.Chat(ctx, req.SystemPrompt, buildUserMessage(req.Question, matches))
	if err != nil {
		return query.GenerateResult{}, fmt.Errorf("chat completion failed: %w", err)
	}

	return query.GenerateResult{
		Answer:  answer,
		Matches: matches,
	}, nil
}

// buildUserMessage assembles the question with the retrieved chunks as
// numbered context blocks, each headed by its source document.
func buildUserMessage(question string, matches []query.Match) string {
	var b strings.Builder
	b.WriteString("Context documents:\n\n")

	for i, m := range matches {
		fmt.Fprintf(&b, "[Document %d: %s", i+1, metaOr(m.Metadata, "filename", "unknown"))
		if title := m.Metadata["title"]; title != "" {
			fmt.Fprintf(&b, " - %s", title)
		}
		b.WriteString("]\n")
		b.WriteString(m.Text)
		b.WriteString("\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

func metaOr(meta map[string]string, key, fallback string) string {
	if v := meta[key]; v != "" {
		return v
	}
	return fallback
}
