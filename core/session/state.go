package session

import (
	"github.com/leofalp/quickchat/core/conversation"
	"github.com/leofalp/quickchat/core/store"
	"github.com/leofalp/quickchat/providers/ai"
)

// Status is the session phase as seen by the presentation layer.
type Status int

const (
	// Idle means no conversation is open.
	Idle Status = iota
	// Active means a conversation is open and can take a prompt.
	Active
	// AwaitingReply means the open conversation has a request in flight.
	AwaitingReply
	// Transitioning means the presentation layer is animating a switch and
	// input is gated.
	Transitioning
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case AwaitingReply:
		return "awaiting_reply"
	case Transitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session. Slices and maps are copies.
type State struct {
	Status Status

	// Active is the open conversation including any pending user turn, or
	// nil when idle.
	Active *conversation.Conversation

	// Loading reports whether Active has a request in flight.
	Loading bool

	// Conversations is the committed collection, newest first.
	Conversations []conversation.Conversation

	// SelectedID is the highlighted entry of the conversation list.
	SelectedID string

	// InFlight lists the conversation ids with a request in flight.
	InFlight []string

	Provider     ai.ProviderID
	Model        string
	SystemPrompt string

	// Credentials holds the in-memory credentials, including unsaved edits.
	Credentials store.Credentials

	// Input is the text of the prompt field.
	Input string

	// NeedsConfiguration is raised when a send was refused for lack of a
	// credential and lowered by saving, cancelling or dismissing.
	NeedsConfiguration bool

	Transitioning bool

	// StorageErr is the last persistence failure, cleared by the next
	// successful save.
	StorageErr error
}

// Configured reports whether the selected provider has a credential.
func (s State) Configured() bool {
	return s.Credentials.Has(s.Provider)
}
