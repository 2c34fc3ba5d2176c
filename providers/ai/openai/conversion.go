package openai

import "github.com/leofalp/quickchat/providers/ai"

// requestFromGeneric builds the chat completions body. A non-empty system
// prompt is inserted as the first message with role "system".
func requestFromGeneric(request ai.ChatRequest) chatCompletionRequest {
	messages := make([]chatMessage, 0, len(request.Messages)+1)
	if request.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, msg := range request.Messages {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	return chatCompletionRequest{
		Model:    request.Model,
		Messages: messages,
	}
}

// responseToGeneric extracts choices[0].message.content.
func responseToGeneric(provider ai.ProviderID, response chatCompletionResponse) (*ai.ChatResponse, error) {
	name := ai.Lookup(provider).DisplayName
	if len(response.Choices) == 0 {
		return nil, ai.NewMalformedResponseError(provider, "Invalid %s response: no choices", name)
	}

	msg := response.Choices[0].Message
	if msg == nil {
		return nil, ai.NewMalformedResponseError(provider, "Invalid %s response: first choice has no message", name)
	}
	if msg.Content == nil {
		if msg.Refusal != nil {
			return nil, ai.NewMalformedResponseError(provider, "Invalid %s response: model refused: %s", name, *msg.Refusal)
		}
		return nil, ai.NewMalformedResponseError(provider, "Invalid %s response: message has no content", name)
	}

	return &ai.ChatResponse{
		Id:      response.ID,
		Model:   response.Model,
		Content: *msg.Content,
	}, nil
}
