package query

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks docqa/internal/query Generator

import (
	"context"
	"errors"
)

// ErrIndexNotReady is reported by a Generator when there is no document index
// to search, typically because nothing has been ingested yet.
var ErrIndexNotReady = errors.New("document index not ready")

// GenerateRequest carries a question to the retrieval+generation collaborator.
type GenerateRequest struct {
	// Question is the raw user question.
	Question string
	// SystemPrompt configures the answer language and grounding instructions.
	SystemPrompt string
	// TopK is the number of chunks to retrieve.
	TopK int
	// Filters are key-equality metadata filters.
	Filters map[string]string
}

// GenerateResult is the collaborator's answer together with the raw ranked matches.
type GenerateResult struct {
	Answer  string
	Matches []Match
}

// Generator is the retrieval+generation collaborator: it retrieves relevant
// chunks for a question and produces an answer grounded in them.
// This interface is defined from the engine's perspective (consumer-first).
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}
