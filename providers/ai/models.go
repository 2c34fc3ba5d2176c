package ai

import (
	"time"

	"github.com/google/uuid"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest is the normalized request every provider translates to its own wire format.
type ChatRequest struct {
	Model        string    `json:"model"`                   // Model identifier, must belong to the provider's catalog entry
	Messages     []Message `json:"messages"`                // Full transcript, oldest first; never empty
	SystemPrompt string    `json:"system_prompt,omitempty"` // Optional, placed per the vendor's convention
	APIKey       string    `json:"-"`                       // Credential for this call, never serialized
}

// Message is a single transcript entry. Messages are created once and never mutated.
type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage returns a message with a fresh id, stamped with at.
func NewMessage(role MessageRole, content string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: at,
	}
}

/*
	##### PROVIDER OUTPUT #####
*/

// ChatResponse carries the single reply extracted from the vendor response.
type ChatResponse struct {
	Id      string `json:"id,omitempty"`
	Model   string `json:"model"`
	Content string `json:"content"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // Only ever produced on the wire by chat-completions vendors
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model reply, or a transcript-visible error
)
