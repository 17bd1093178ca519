package llm

import (
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderGroq     = "groq"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient returns the client for provider. An empty provider means Groq and
// an empty model means the provider's default model. Groq, OpenAI and LM
// Studio share the OpenAI-compatible client.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderGroq:
		return NewCompatClient(ProviderGroq, model, baseURL)
	case ProviderOpenAI:
		return NewCompatClient(ProviderOpenAI, model, baseURL)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return NewCompatClient(ProviderLMStudio, model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
