package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	EmbeddingModel      string
	EmbeddingDimension  int
	QdrantURL           string
	QdrantCollection    string
	DBPath              string
	DocsDir             string
	MaxFileSizeMB       int
	MaxFilesCount       int
	ChunkSize           int
	ChunkOverlap        int
	SimilarityTopK      int
	SimilarityThreshold float64
	APIPort             string
	LogLevel            slog.Level
	LogFormat           string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory it is loaded automatically;
// environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "qa-documents"),
		DBPath:           getEnv("DB_PATH", "./data/docqa.db"),
		DocsDir:          getEnv("DOCS_DIR", ""),
		APIPort:          getEnv("API_PORT", "8000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	var err error
	if cfg.EmbeddingDimension, err = getEnvInt("EMBEDDING_DIMENSION", 1536); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDimension <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSION must be greater than 0")
	}
	if cfg.MaxFileSizeMB, err = getEnvInt("MAX_FILE_SIZE_MB", 50); err != nil {
		return nil, err
	}
	if cfg.MaxFilesCount, err = getEnvInt("MAX_FILES_COUNT", 100); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 20); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be smaller than CHUNK_SIZE")
	}
	if cfg.SimilarityTopK, err = getEnvInt("SIMILARITY_TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.SimilarityTopK < 1 {
		return nil, fmt.Errorf("SIMILARITY_TOP_K must be at least 1")
	}

	thresholdStr := getEnv("SIMILARITY_THRESHOLD", "0.7")
	cfg.SimilarityThreshold, err = strconv.ParseFloat(thresholdStr, 64)
	if err != nil {
		return nil, fmt.Errorf("SIMILARITY_THRESHOLD must be a valid float: %w", err)
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("SIMILARITY_THRESHOLD must be within [0, 1]")
	}

	switch level := getEnv("LOG_LEVEL", "info"); level {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", level)
	}

	// Create the data directory for the SQLite file if needed.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}
