package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docqa/internal/config"
	"docqa/internal/generation"
	"docqa/internal/http"
	"docqa/internal/ingest"
	"docqa/internal/llm"
	"docqa/internal/query"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	docRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDimension); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "dimension", cfg.EmbeddingDimension)

	embedder := llm.NewEmbeddingsClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	chatClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)

	detector := query.NewDetector()

	pipeline := ingest.NewPipeline(
		docRepo,
		chunkRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		detector,
		ingest.Limits{
			MaxFileSizeMB: cfg.MaxFileSizeMB,
			MaxFilesCount: cfg.MaxFilesCount,
		},
	)

	// Preload documents from disk when a docs directory is configured.
	// Failures are logged; the API still serves whatever was ingested.
	if cfg.DocsDir != "" {
		go func() {
			if err := pipeline.IngestDir(ctx, cfg.DocsDir); err != nil {
				slog.Error("Initial document ingest incomplete", "dir", cfg.DocsDir, "error", err)
			}
		}()
	}

	generator := generation.NewGenerator(embedder, vectorStore, chunkRepo, chatClient, cfg.QdrantCollection)
	engine := query.NewEngine(generator, detector)

	router := http.NewRouter(&http.Deps{
		Engine:           engine,
		Pipeline:         pipeline,
		DocRepo:          docRepo,
		VectorStore:      vectorStore,
		Collection:       cfg.QdrantCollection,
		DefaultTopK:      cfg.SimilarityTopK,
		DefaultThreshold: cfg.SimilarityThreshold,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
