package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(context.Background(), ProviderOllama, "llama3", "", "")
	require.NoError(t, err)
	assert.Equal(t, "ollama:llama3", p.Name())

	_, err = NewLLMProvider(context.Background(), ProviderGemini, "", "", "")
	assert.Error(t, err, "gemini without key must fail")

	_, err = NewLLMProvider(context.Background(), "openai", "gpt", "", "")
	assert.EqualError(t, err, "unsupported LLM provider: openai")
}
