package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrMissingAPIKey is returned when a hosted provider has no API key.
var ErrMissingAPIKey = errors.New("api key is not set")

// compatProvider describes an OpenAI-compatible endpoint.
type compatProvider struct {
	baseURL      string
	defaultModel string
	keyEnv       []string
	// localKey is sent when no key is set; local servers ignore it.
	localKey string
}

var compatProviders = map[string]compatProvider{
	ProviderGroq: {
		baseURL:      "https://api.groq.com/openai/v1",
		defaultModel: "openai/gpt-oss-120b",
		keyEnv:       []string{"GROQ_API_KEY"},
	},
	ProviderOpenAI: {
		baseURL:      "https://api.openai.com/v1",
		defaultModel: "gpt-4o-mini",
		keyEnv:       []string{"OPENAI_API_KEY"},
	},
	ProviderLMStudio: {
		baseURL:  "http://localhost:1234/v1",
		keyEnv:   []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"},
		localKey: "lm-studio",
	},
}

// CompatClient implements Client for any OpenAI-compatible chat API:
// Groq, OpenAI and LM Studio.
type CompatClient struct {
	client   openai.Client
	provider string
	model    string
	baseURL  string
}

// NewCompatClient creates a client for one of the OpenAI-compatible providers.
func NewCompatClient(provider, model, baseURL string) (*CompatClient, error) {
	p, ok := compatProviders[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if strings.TrimSpace(model) == "" {
		model = p.defaultModel
	}
	if model == "" {
		return nil, fmt.Errorf("%s model is required", provider)
	}
	if baseURL == "" {
		baseURL = p.baseURL
	}

	apiKey := lookupKey(p.keyEnv)
	if apiKey == "" {
		if p.localKey == "" {
			return nil, fmt.Errorf("%s: %w (set %s)", provider, ErrMissingAPIKey, p.keyEnv[0])
		}
		apiKey = p.localKey
	}

	return &CompatClient{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
		),
		provider: provider,
		model:    model,
		baseURL:  baseURL,
	}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *CompatClient) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.provider)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%s returned an empty response", c.provider)
	}
	return content, nil
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *CompatClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}

func lookupKey(names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
