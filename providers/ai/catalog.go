package ai

import (
	"fmt"
	"slices"
	"strings"
)

// ProviderID identifies a supported vendor. It is the stable key used by the
// registry, the credential store and the settings store.
type ProviderID string

const (
	ProviderGemini    ProviderID = "gemini"
	ProviderGrok      ProviderID = "grok"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderOpenAI    ProviderID = "openai"
)

// ProviderInfo is the static catalog entry for a provider.
type ProviderInfo struct {
	ID          ProviderID
	DisplayName string   // Human-facing name, also the legacy persistence key suffix
	Models      []string // Ordered, non-empty; the first entry is the default model
	Icon        string   // Symbol name the presentation layer renders
	Placeholder string   // Credential entry placeholder
	HelpText    string   // Where to obtain a credential
}

// catalog lists providers in presentation order.
var catalog = []ProviderInfo{
	{
		ID:          ProviderGemini,
		DisplayName: "Google Gemini",
		Models:      []string{"gemini-2.5-pro", "gemini-2.5-flash"},
		Icon:        "sparkle",
		Placeholder: "AIza...",
		HelpText:    "Get your API key from aistudio.google.com/apikey",
	},
	{
		ID:          ProviderGrok,
		DisplayName: "Grok",
		Models:      []string{"grok-code-fast-1", "grok-4-fast-reasoning", "grok-4-fast-non-reasoning"},
		Icon:        "bolt.fill",
		Placeholder: "xai-...",
		HelpText:    "Get your API key from console.x.ai",
	},
	{
		ID:          ProviderAnthropic,
		DisplayName: "Anthropic",
		Models:      []string{"claude-sonnet-4-20250514", "claude-opus-4-20250514", "claude-3-5-sonnet-20241022"},
		Icon:        "brain.head.profile",
		Placeholder: "sk-ant-...",
		HelpText:    "Get your API key from console.anthropic.com",
	},
	{
		ID:          ProviderOpenAI,
		DisplayName: "OpenAI",
		Models:      []string{"gpt-5-2025-08-07", "gpt-5-mini-2025-08-07", "gpt-5-nano-2025-08-07"},
		Icon:        "cpu",
		Placeholder: "sk-...",
		HelpText:    "Get your API key from platform.openai.com",
	},
}

var catalogByID = func() map[ProviderID]ProviderInfo {
	byID := make(map[ProviderID]ProviderInfo, len(catalog))
	for _, info := range catalog {
		byID[info.ID] = info
	}
	return byID
}()

// Providers returns every provider identifier in catalog order.
func Providers() []ProviderID {
	ids := make([]ProviderID, len(catalog))
	for i, info := range catalog {
		ids[i] = info.ID
	}
	return ids
}

// Lookup returns the catalog entry for id. Unknown identifiers are a
// programming error and panic.
func Lookup(id ProviderID) ProviderInfo {
	info, ok := catalogByID[id]
	if !ok {
		panic(fmt.Sprintf("ai: unknown provider %q", id))
	}
	info.Models = slices.Clone(info.Models)
	return info
}

// Known reports whether id is in the catalog.
func Known(id ProviderID) bool {
	_, ok := catalogByID[id]
	return ok
}

// Models returns the ordered model list for id.
func (id ProviderID) Models() []string {
	return Lookup(id).Models
}

// DefaultModel returns the first model in the catalog entry for id.
func (id ProviderID) DefaultModel() string {
	return catalogByID[id].Models[0]
}

// HasModel reports whether model belongs to id's model list.
func (id ProviderID) HasModel(model string) bool {
	info, ok := catalogByID[id]
	return ok && slices.Contains(info.Models, model)
}

// ParseProviderID accepts an identifier or a display name, case-insensitively.
func ParseProviderID(s string) (ProviderID, error) {
	s = strings.TrimSpace(s)
	for _, info := range catalog {
		if strings.EqualFold(s, string(info.ID)) || strings.EqualFold(s, info.DisplayName) {
			return info.ID, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}
