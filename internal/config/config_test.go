package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OpenAIModel != "gpt-4" {
		t.Errorf("OpenAIModel = %q, want gpt-4", cfg.OpenAIModel)
	}
	if cfg.EmbeddingModel != "text-embedding-ada-002" {
		t.Errorf("EmbeddingModel = %q, want text-embedding-ada-002", cfg.EmbeddingModel)
	}
	if cfg.EmbeddingDimension != 1536 {
		t.Errorf("EmbeddingDimension = %d, want 1536", cfg.EmbeddingDimension)
	}
	if cfg.QdrantCollection != "qa-documents" {
		t.Errorf("QdrantCollection = %q, want qa-documents", cfg.QdrantCollection)
	}
	if cfg.SimilarityTopK != 5 {
		t.Errorf("SimilarityTopK = %d, want 5", cfg.SimilarityTopK)
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %v, want 0.7", cfg.SimilarityThreshold)
	}
	if cfg.ChunkSize != 1024 || cfg.ChunkOverlap != 20 {
		t.Errorf("chunking = %d/%d, want 1024/20", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.MaxFileSizeMB != 50 || cfg.MaxFilesCount != 100 {
		t.Errorf("file limits = %dMB/%d, want 50MB/100", cfg.MaxFileSizeMB, cfg.MaxFilesCount)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error when OPENAI_API_KEY is unset")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric top k", "SIMILARITY_TOP_K", "five"},
		{"zero top k", "SIMILARITY_TOP_K", "0"},
		{"threshold above one", "SIMILARITY_THRESHOLD", "1.5"},
		{"threshold not a float", "SIMILARITY_THRESHOLD", "high"},
		{"overlap exceeds chunk size", "CHUNK_OVERLAP", "2048"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"zero dimension", "EMBEDDING_DIMENSION", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SIMILARITY_TOP_K", "8")
	t.Setenv("SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SimilarityTopK != 8 {
		t.Errorf("SimilarityTopK = %d, want 8", cfg.SimilarityTopK)
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold = %v, want 0.5", cfg.SimilarityThreshold)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}
