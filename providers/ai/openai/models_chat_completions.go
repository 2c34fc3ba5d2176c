package openai

/*
	CHAT COMPLETIONS API - REQUEST TYPES
*/

// chatCompletionRequest is the body of POST /chat/completions. Only the
// fields this client sends are declared.
type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a message in the conversation.
type chatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

/*
	CHAT COMPLETIONS API - RESPONSE TYPES
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"` // "chat.completion"
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int                  `json:"index"`
	Message      *chatResponseMessage `json:"message"`
	FinishReason string               `json:"finish_reason"`
}

// chatResponseMessage keeps Content as a pointer: the API sends null when
// the model produced no text.
type chatResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
	Refusal *string `json:"refusal,omitempty"`
}
