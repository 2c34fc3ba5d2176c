package utils

import (
	"encoding/json"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// maxVendorMessageLength bounds the description copied into a transcript.
const maxVendorMessageLength = 300

// vendorErrorBody covers the error envelopes of all four vendors:
//
//	Anthropic: {"type":"error","error":{"type":"authentication_error","message":"..."}}
//	Gemini:    {"error":{"code":400,"message":"...","status":"INVALID_ARGUMENT"}}
//	OpenAI/xAI: {"error":{"message":"...","type":"...","code":"..."}} or {"error":"..."}
type vendorErrorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type vendorErrorDetail struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Type    string `json:"type"`
}

// VendorErrorMessage extracts a human-readable description from a non-2xx
// response body. JSON envelopes yield their error message; HTML pages (load
// balancers, proxies) are converted to Markdown text; anything else is
// returned trimmed. The result is truncated for display.
func VendorErrorMessage(contentType string, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response body"
	}

	if msg := jsonErrorMessage(body); msg != "" {
		return TruncateString(msg, maxVendorMessageLength)
	}

	if looksLikeHTML(contentType, text) {
		if markdown, err := htmltomarkdown.ConvertString(text); err == nil {
			text = strings.Join(strings.Fields(markdown), " ")
		}
	}

	return TruncateString(text, maxVendorMessageLength)
}

func jsonErrorMessage(body []byte) string {
	var envelope vendorErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if len(envelope.Error) > 0 {
		var detail vendorErrorDetail
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
			return detail.Message
		}
		var plain string
		if err := json.Unmarshal(envelope.Error, &plain); err == nil && plain != "" {
			return plain
		}
	}

	return envelope.Message
}

func looksLikeHTML(contentType, text string) bool {
	if strings.HasPrefix(contentType, "text/html") {
		return true
	}
	if contentType == "" {
		contentType = http.DetectContentType([]byte(text))
		return strings.HasPrefix(contentType, "text/html")
	}
	return false
}
