package gemini

// generateContentRequest is the request body for models/{model}:generateContent.
type generateContentRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"` // Absent when the prompt is empty
}

// content is one turn of the conversation, or the system instruction.
type content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"; unset on systemInstruction
	Parts []part `json:"parts"`
}

// part holds text. Text is a pointer on decode so a missing field is
// distinguishable from an empty reply.
type part struct {
	Text *string `json:"text"`
}

// generateContentResponse declares only the fields the client reads.
type generateContentResponse struct {
	Candidates     []candidate `json:"candidates"`
	ModelVersion   string      `json:"modelVersion,omitempty"`
	ResponseID     string      `json:"responseId,omitempty"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}
