// Package llm turns free-text descriptions into structured data through
// chat-completion providers.
package llm

import (
	"context"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a chat-completion provider.
type Client interface {
	// Chat sends messages and returns the text of the first answer.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatJSON asks for a JSON answer and decodes it into result. A JSON
	// document wrapped in a code fence or prose is still accepted.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}
