package generation

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// textClient wraps the OpenAI chat completion API for single-turn
// structured generation.
type textClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func newTextClient(cfg *Config) *textClient {
	return &textClient{
		client:      openai.NewClient(cfg.OpenAIKey),
		model:       cfg.TextModel,
		temperature: cfg.TextTemperature,
		maxTokens:   cfg.TextMaxTokens,
	}
}

func (c *textClient) generate(ctx context.Context, req TextRequest) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.Instructions},
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
