package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingsClient is a client for the OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	Model        string
	ExpectedSize int // Expected vector size for validation
	client       *openai.Client
}

// NewEmbeddingsClient creates a new embeddings client.
// expectedSize is the configured vector dimension; all embeddings returned by
// EmbedTexts are validated against it so the vector index never receives
// vectors of the wrong size.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) *EmbeddingsClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &EmbeddingsClient{
		Model:        model,
		ExpectedSize: expectedSize,
		client:       openai.NewClientWithConfig(cfg),
	}
}

// EmbedTexts generates embeddings for the given texts.
// Returns one float32 vector per input text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          texts,
		Model:          openai.EmbeddingModel(c.Model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	result := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.ExpectedSize)
		}
		result[i] = data.Embedding
	}

	return result, nil
}
