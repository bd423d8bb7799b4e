package query

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks docqa/internal/query Engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docqa/internal/contextutil"
)

const (
	defaultTopK = 5
	maxTopK     = 20
)

// Engine answers questions over the ingested document corpus and keeps a
// queryable history of past interactions.
type Engine interface {
	// Process answers a single query. All collaborator failures are returned
	// as errors with human-readable messages; nothing panics through.
	Process(ctx context.Context, req Request) (Result, error)
	// RecentHistory returns the last limit successful results in chronological order.
	RecentHistory(limit int) []Result
	// ClearHistory removes all recorded results.
	ClearHistory()
	// Statistics returns aggregate statistics over the recorded history.
	Statistics() Stats
}

// engine implements the Engine interface.
type engine struct {
	generator Generator
	detector  *Detector
	history   *History
}

// NewEngine creates a new query engine over the given collaborator.
func NewEngine(generator Generator, detector *Detector) Engine {
	return &engine{
		generator: generator,
		detector:  detector,
		history:   NewHistory(),
	}
}

// Process runs the full pipeline: detect language, retrieve and generate,
// filter by similarity threshold, score, format sources, record history.
//
// When no retrieved chunk passes the threshold the result is a localized
// "no relevant documents" answer with zero confidence and no sources; the
// generation collaborator is not invoked a second time and the result is not
// recorded in history.
func (e *engine) Process(ctx context.Context, req Request) (result Result, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	// The collaborator call must never escape as a fault to the caller.
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "query processing panicked", "panic", r)
			result = Result{}
			err = fmt.Errorf("error processing query: %v", r)
		}
	}()

	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	threshold := clamp(req.Threshold, 0, 1)

	language := e.detector.Detect(req.Text)
	logger.InfoContext(ctx, "query started",
		"query", req.Text,
		"language", language,
		"top_k", topK,
		"threshold", threshold,
	)

	generated, genErr := e.generator.Generate(ctx, GenerateRequest{
		Question:     req.Text,
		SystemPrompt: PromptFor(language),
		TopK:         topK,
		Filters:      req.Filters,
	})
	if genErr != nil {
		if errors.Is(genErr, ErrIndexNotReady) {
			logger.WarnContext(ctx, "query rejected, index not ready")
			return Result{}, fmt.Errorf("query engine not available, please upload documents first: %w", genErr)
		}
		logger.ErrorContext(ctx, "generation failed", "error", genErr)
		return Result{}, fmt.Errorf("error processing query: %w", genErr)
	}

	filtered := FilterByScore(generated.Matches, threshold)
	logger.DebugContext(ctx, "matches filtered",
		"retrieved", len(generated.Matches),
		"kept", len(filtered),
	)

	if len(filtered) == 0 {
		logger.InfoContext(ctx, "no matches above threshold", "threshold", threshold)
		return Result{
			Answer:     noResultsAnswer(language),
			Confidence: 0.0,
			Sources:    []SourceCitation{},
			Language:   language,
			Query:      req.Text,
			Timestamp:  time.Now().UTC(),
		}, nil
	}

	result = Result{
		Answer:     generated.Answer,
		Confidence: ConfidenceFor(generated.Answer, filtered),
		Sources:    FormatSources(filtered),
		Language:   language,
		Query:      req.Text,
		Timestamp:  time.Now().UTC(),
	}

	e.history.Append(result)

	logger.InfoContext(ctx, "query completed",
		"confidence", result.Confidence,
		"sources", len(result.Sources),
		"answer_length", len(result.Answer),
	)
	return result, nil
}

// RecentHistory returns the last limit successful results in chronological order.
func (e *engine) RecentHistory(limit int) []Result {
	return e.history.Recent(limit)
}

// ClearHistory removes all recorded results.
func (e *engine) ClearHistory() {
	e.history.Clear()
}

// Statistics returns aggregate statistics over the recorded history.
func (e *engine) Statistics() Stats {
	return e.history.Statistics()
}
