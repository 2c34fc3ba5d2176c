package session

import (
	"errors"
	"fmt"

	"github.com/leofalp/quickchat/providers/ai"
)

// Guard errors returned synchronously by session commands.
var (
	// ErrNeedsConfiguration matches every [*ConfigurationError].
	ErrNeedsConfiguration = errors.New("provider needs configuration")

	ErrEmptyPrompt          = errors.New("prompt is empty")
	ErrNoActiveConversation = errors.New("no active conversation")
	ErrAwaitingReply        = errors.New("conversation is awaiting a reply")
	ErrTransitioning        = errors.New("session is transitioning")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUnknownModel         = errors.New("model does not belong to provider")
	ErrClosed               = errors.New("session closed")
)

// ConfigurationError reports that the selected provider has no credential.
// No request was sent and the conversation set is unchanged.
type ConfigurationError struct {
	Provider ai.ProviderID
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: no API key configured", ai.Lookup(e.Provider).DisplayName)
}

// Unwrap lets errors.Is match [ErrNeedsConfiguration].
func (e *ConfigurationError) Unwrap() error {
	return ErrNeedsConfiguration
}
