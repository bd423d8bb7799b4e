package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// chatTemperature keeps answer generation close to the retrieved context.
const chatTemperature = 0.2

// Client is a client for the OpenAI-compatible chat completions API.
type Client struct {
	Model  string
	client *openai.Client
}

// NewClient creates a new chat completion client.
// baseURL may be empty to use the default OpenAI endpoint; setting it allows
// pointing at any OpenAI-compatible server.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		Model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Chat sends a system-prompted chat completion request and returns the answer text.
func (c *Client) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.Model,
		Temperature: chatTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
