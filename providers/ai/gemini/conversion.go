package gemini

import "github.com/leofalp/quickchat/providers/ai"

// Gemini only knows two conversational roles.
const (
	roleUser  = "user"
	roleModel = "model"
)

func textPart(s string) part {
	return part{Text: &s}
}

// requestToGemini maps the transcript to contents. User messages keep the
// "user" role and every other role becomes "model". A non-empty system prompt
// is sent as systemInstruction.
func requestToGemini(request ai.ChatRequest) generateContentRequest {
	contents := make([]content, 0, len(request.Messages))
	for _, msg := range request.Messages {
		role := roleModel
		if msg.Role == ai.RoleUser {
			role = roleUser
		}
		contents = append(contents, content{
			Role:  role,
			Parts: []part{textPart(msg.Content)},
		})
	}

	req := generateContentRequest{Contents: contents}
	if request.SystemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{textPart(request.SystemPrompt)}}
	}
	return req
}

// geminiToGeneric extracts candidates[0].content.parts[0].text.
func geminiToGeneric(response generateContentResponse) (*ai.ChatResponse, error) {
	if len(response.Candidates) == 0 {
		if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			return nil, ai.NewMalformedResponseError(ai.ProviderGemini, "Invalid Gemini response: prompt blocked (%s)", response.PromptFeedback.BlockReason)
		}
		return nil, ai.NewMalformedResponseError(ai.ProviderGemini, "Invalid Gemini response: no candidates")
	}

	first := response.Candidates[0]
	if first.Content == nil || len(first.Content.Parts) == 0 {
		return nil, ai.NewMalformedResponseError(ai.ProviderGemini, "Invalid Gemini response: candidate has no parts (finish reason %q)", first.FinishReason)
	}
	if first.Content.Parts[0].Text == nil {
		return nil, ai.NewMalformedResponseError(ai.ProviderGemini, "Invalid Gemini response: first part has no text")
	}

	return &ai.ChatResponse{
		Id:      response.ResponseID,
		Model:   response.ModelVersion,
		Content: *first.Content.Parts[0].Text,
	}, nil
}
