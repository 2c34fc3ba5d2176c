// Package anthropic implements [ai.Provider] for Anthropic's Messages API.
//
// Requests carry the transcript with roles mapped 1:1, a fixed output budget
// of 4096 tokens, and the system prompt as the top-level "system" field
// (omitted when empty). Authentication uses the x-api-key header pinned to
// anthropic-version 2023-06-01. The reply is the text of the first content
// block.
//
// [New] reads ANTHROPIC_API_BASE_URL from the environment; credentials are
// supplied per request through [ai.ChatRequest.APIKey].
package anthropic
