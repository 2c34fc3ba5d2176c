package anthropic

/*
	ANTHROPIC MESSAGES API - REQUEST TYPES
*/

// anthropicRequest represents the request body for Anthropic's Messages API.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"` // Required by Anthropic on every request
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"` // Top-level field, absent when empty
}

// anthropicMessage represents a single message in the conversation.
type anthropicMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

/*
	ANTHROPIC MESSAGES API - RESPONSE TYPES
*/

// anthropicResponse represents the response from Anthropic's Messages API.
// Only the fields the client reads are declared.
type anthropicResponse struct {
	ID         string                 `json:"id"`
	Model      string                 `json:"model"`
	Content    []responseContentBlock `json:"content"`
	StopReason string                 `json:"stop_reason"`
}

// responseContentBlock represents a content block in the response. Text is a
// pointer so a block without a text field is distinguishable from "".
type responseContentBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}
