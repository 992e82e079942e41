package llm

import (
	"context"
	"fmt"
	"math"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Sampling is fixed: greedy decoding (temperature 0) with a bounded output
// length. go-openai drops a literal 0 from the request body via omitempty,
// letting the server fall back to its own default, so the smallest nonzero
// float stands in for 0 on the wire.
const temperature = math.SmallestNonzeroFloat32

// Config configures the chat-completion client. BaseURL may point at any
// OpenAI-compatible endpoint; the default config targets Gemini's
// compatibility layer. The API key env var is read at construction but an
// absent key is not fatal: the remote call fails at invocation time instead.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	MaxTokens int
}

type openAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient builds a chat client for an OpenAI-compatible endpoint.
func NewOpenAIClient(cfg Config) Client {
	apiCfg := openai.DefaultConfig(os.Getenv(cfg.APIKeyEnv))
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	return &openAIClient{
		client:    openai.NewClientWithConfig(apiCfg),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

func (c *openAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
