package factory

import (
	"context"
	"fmt"

	"ai-crm-be/pkg/llm"
	"ai-crm-be/pkg/llm/gemini"
	"ai-crm-be/pkg/llm/ollama"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

func NewLLMProvider(ctx context.Context, providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case ProviderGemini, "":
		return gemini.NewGeminiProvider(ctx, apiKey, modelName)
	case ProviderOllama:
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
