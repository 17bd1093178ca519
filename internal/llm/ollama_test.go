package llm

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestNewOllamaClient_Defaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")

	client, err := NewOllamaClient("", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultOllamaBaseURL)
	}
	if client.model != defaultOllamaModel {
		t.Errorf("model = %q, want %q", client.model, defaultOllamaModel)
	}
}

func TestNewOllamaClient_HostFromEnv(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "10.0.0.5:11434")

	client, err := NewOllamaClient("mistral", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != "http://10.0.0.5:11434" {
		t.Errorf("baseURL = %q, want http://10.0.0.5:11434", client.baseURL)
	}

	client, err = NewOllamaClient("mistral", "http://gpu-box:11434")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != "http://gpu-box:11434" {
		t.Errorf("explicit baseURL not kept: %q", client.baseURL)
	}
}

func TestToLangChainMessages(t *testing.T) {
	got := toLangChainMessages([]Message{
		{Role: RoleSystem, Content: "rules"},
		{Role: "USER", Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})

	want := []llms.ChatMessageType{llms.ChatMessageTypeSystem, llms.ChatMessageTypeHuman, llms.ChatMessageTypeAI}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.Role != want[i] {
			t.Errorf("message %d role = %s, want %s", i, m.Role, want[i])
		}
	}
}
