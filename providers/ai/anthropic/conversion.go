package anthropic

import "github.com/leofalp/quickchat/providers/ai"

// requestToAnthropic converts a generic request to the Messages wire format.
// Roles pass through 1:1; the system prompt becomes the top-level "system"
// field and is omitted entirely when empty.
func requestToAnthropic(request ai.ChatRequest) anthropicRequest {
	messages := make([]anthropicMessage, 0, len(request.Messages))
	for _, msg := range request.Messages {
		messages = append(messages, anthropicMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return anthropicRequest{
		Model:     request.Model,
		MaxTokens: maxOutputTokens,
		Messages:  messages,
		System:    request.SystemPrompt,
	}
}

// anthropicToGeneric extracts the reply from the first content block.
func anthropicToGeneric(response anthropicResponse) (*ai.ChatResponse, error) {
	if len(response.Content) == 0 {
		return nil, ai.NewMalformedResponseError(ai.ProviderAnthropic, "Invalid Anthropic response: no content blocks")
	}

	first := response.Content[0]
	if first.Text == nil {
		return nil, ai.NewMalformedResponseError(ai.ProviderAnthropic, "Invalid Anthropic response: first content block (type %q) has no text", first.Type)
	}

	return &ai.ChatResponse{
		Id:      response.ID,
		Model:   response.Model,
		Content: *first.Text,
	}, nil
}
