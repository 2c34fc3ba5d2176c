package store

import "github.com/leofalp/quickchat/providers/ai"

// Persisted keys. The layout matches what earlier releases wrote so existing
// data keeps loading.
const (
	KeyConversations    = "conversations"
	KeySelectedProvider = "selected_provider" // display name of the provider
	KeySelectedModel    = "selected_model"
	KeySystemPrompt     = "system_prompt"

	credentialKeyPrefix = "api_key_"
)

// CredentialKey returns the key holding id's credential: "api_key_" followed
// by the provider's display name.
func CredentialKey(id ai.ProviderID) string {
	return credentialKeyPrefix + ai.Lookup(id).DisplayName
}
