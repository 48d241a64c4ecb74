package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// GeminiBaseURL is Gemini's OpenAI-compatible chat completion endpoint
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	// DefaultGeminiModel is the Gemini model used for text generation
	DefaultGeminiModel = "gemini-2.5-flash"
	// DefaultOpenAIModel is the OpenAI model used for text generation
	DefaultOpenAIModel = "gpt-4o-mini"
)

var (
	// ErrEmptyPrompt is returned when the prompt is empty
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrNoCredentials is returned when no provider API key is configured
	ErrNoCredentials = errors.New("no AI API key configured: set MINDSTASH_GEMINI_API_KEY or MINDSTASH_OPENAI_API_KEY")
	// ErrNoChoices is returned when the provider responds without any completion
	ErrNoChoices = errors.New("no completion choices returned")
)

// ChatCompletionAPI defines the interface for chat completion requests
type ChatCompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps a chat completion API as a single-prompt text generator
type Client struct {
	api   ChatCompletionAPI
	model string
}

// Config holds the provider credentials. Gemini takes precedence when both
// keys are set; neither set means no provider is available.
type Config struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	GeminiModel  string
	OpenAIModel  string
}

// NewFromConfig resolves the provider by credential presence. Returns
// ErrNoCredentials without any network call when no key is configured.
func NewFromConfig(cfg Config) (*Client, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case cfg.OpenAIAPIKey != "":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, ErrNoCredentials
	}
}

// NewGeminiClient creates a text generation client backed by Gemini's
// OpenAI-compatible endpoint.
func NewGeminiClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultGeminiModel
	}
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = GeminiBaseURL
	return &Client{
		api:   openai.NewClientWithConfig(clientConfig),
		model: model,
	}
}

// NewOpenAIClient creates a text generation client backed by OpenAI.
func NewOpenAIClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends a single-turn prompt and returns the completion text.
// Failures are not retried here.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("text generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
