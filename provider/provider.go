package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/briefer/config"
	openai_provider "github.com/mohammad-safakhou/briefer/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// ErrNotConfigured signals that no provider credentials were supplied.
// Callers treat this as "generation unavailable", not as a failure.
var ErrNotConfigured = errors.New("llm provider not configured")

// Provider is the interface that all LLM implementations must satisfy.
type Provider interface {
	// Complete runs one chat completion with a system prompt and a user
	// instruction and returns the raw model text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// CreateEmbedding returns one vector per input text.
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates a new LLM client based on the provided configuration.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	switch Client(cfg.Provider) {
	case OpenAI, "":
		return openai_provider.NewOpenAIClient(
			cfg.APIKey,
			cfg.CompletionModel,
			cfg.EmbeddingModel,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
