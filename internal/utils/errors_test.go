package utils

import (
	"strings"
	"testing"
)

func TestVendorErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{
			name:        "anthropic envelope",
			contentType: "application/json",
			body:        `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			want:        "invalid x-api-key",
		},
		{
			name:        "gemini envelope",
			contentType: "application/json; charset=UTF-8",
			body:        `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`,
			want:        "API key not valid. Please pass a valid API key.",
		},
		{
			name:        "openai envelope",
			contentType: "application/json",
			body:        `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			want:        "Incorrect API key provided",
		},
		{
			name:        "xai plain string error",
			contentType: "application/json",
			body:        `{"code":"Client specified an invalid argument","error":"Incorrect API key provided: xa***"}`,
			want:        "Incorrect API key provided: xa***",
		},
		{
			name:        "top-level message",
			contentType: "application/json",
			body:        `{"message":"model not found"}`,
			want:        "model not found",
		},
		{
			name:        "plain text",
			contentType: "text/plain",
			body:        "  upstream connect error  ",
			want:        "upstream connect error",
		},
		{
			name: "empty body",
			body: "",
			want: "empty response body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VendorErrorMessage(tt.contentType, []byte(tt.body)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestVendorErrorMessage_HTML verifies gateway error pages are reduced to text.
func TestVendorErrorMessage_HTML(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>502</title></head><body><h1>502 Bad Gateway</h1><p>The upstream server is unavailable.</p></body></html>`

	for _, contentType := range []string{"text/html; charset=utf-8", ""} {
		got := VendorErrorMessage(contentType, []byte(page))
		if strings.Contains(got, "<h1>") || strings.Contains(got, "<p>") {
			t.Errorf("content type %q: expected tags to be stripped, got %q", contentType, got)
		}
		if !strings.Contains(got, "502 Bad Gateway") || !strings.Contains(got, "upstream server is unavailable") {
			t.Errorf("content type %q: expected page text to survive, got %q", contentType, got)
		}
	}
}

func TestVendorErrorMessage_Truncates(t *testing.T) {
	got := VendorErrorMessage("text/plain", []byte(strings.Repeat("a", 1000)))
	if !strings.Contains(got, "truncated") {
		t.Errorf("expected long body to be truncated, got %d chars", len(got))
	}
}
