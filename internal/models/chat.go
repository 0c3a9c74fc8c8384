package models

// Message limits enforced by both the proxy handler and the chat client.
const (
	MaxConversationLength = 50
	MaxMessageLength      = 2000
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat proxy endpoint.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}
