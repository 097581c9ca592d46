package client

import (
	"context"
	"fmt"

	"github.com/Netcracker/qubership-weblogic-audit-service/view"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenai = "openai"
)

// LLMClient is the boundary to the external language model. Callers must
// not rely on it succeeding; the suggestion service wraps every call with a
// degraded-but-valid fallback.
type LLMClient interface {
	Suggest(ctx context.Context, message string, language string) (*view.SuggestionAnswer, error)
	DescribeImage(ctx context.Context, imageData []byte, mimeType string, language string) (string, error)
}

// NewLLMClient builds the provider selected by configuration. An empty
// provider defaults to gemini, matching the deployed setup.
func NewLLMClient(provider string, apiKey string, model string, baseUrl string) (LLMClient, error) {
	switch provider {
	case "", ProviderGemini:
		return NewGeminiClient(apiKey, model, baseUrl)
	case ProviderOpenai:
		return NewOpenaiClient(apiKey, model, baseUrl)
	default:
		return nil, fmt.Errorf("unknown LLM provider '%s', available options are: %s, %s", provider, ProviderGemini, ProviderOpenai)
	}
}
