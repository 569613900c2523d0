package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_synthesizer.go -package=mocks docqa/internal/llm Synthesizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Synthesizer generates a completion for a prompt.
type Synthesizer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAISynthesizer generates completions through an OpenAI-compatible
// chat completions API.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISynthesizer creates a completion client. baseURL overrides the
// API endpoint for self-hosted backends; empty means the OpenAI default.
func NewOpenAISynthesizer(baseURL, apiKey, model string) *OpenAISynthesizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends the prompt as a single user message and returns the first
// choice's content.
func (s *OpenAISynthesizer) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
