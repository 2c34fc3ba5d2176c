package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/quickchat/providers/ai"
)

func TestNew(t *testing.T) {
	t.Setenv("GEMINI_API_BASE_URL", "")
	provider := New()
	if provider.baseURL != defaultBaseURL {
		t.Errorf("expected baseURL %q, got %q", defaultBaseURL, provider.baseURL)
	}
	if provider.ID() != ai.ProviderGemini {
		t.Errorf("unexpected ID %q", provider.ID())
	}
}

func TestNew_BaseURLFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_BASE_URL", "http://localhost:9999/v1beta")
	if got := New().baseURL; got != "http://localhost:9999/v1beta" {
		t.Errorf("expected env base URL, got %q", got)
	}
}

// TestSendMessage_Success checks the URL, the key query parameter, role
// mapping and reply extraction.
func TestSendMessage_Success(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "AIza-test" {
			t.Errorf("expected key query parameter, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Bonjour"}]},"finishReason":"STOP"}],"modelVersion":"gemini-2.5-flash","responseId":"resp-1"}`)
	}))
	defer server.Close()

	response, err := New().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
		Model: "gemini-2.5-flash",
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: "hello"},
			{Role: ai.RoleAssistant, Content: "hi"},
			{Role: ai.RoleUser, Content: "in French?"},
		},
		APIKey: "AIza-test",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if response.Content != "Bonjour" || response.Id != "resp-1" {
		t.Errorf("unexpected response %+v", response)
	}

	if _, ok := got["systemInstruction"]; ok {
		t.Error("expected systemInstruction to be absent for an empty prompt")
	}
	contents := got["contents"].([]any)
	wantRoles := []string{"user", "model", "user"}
	if len(contents) != len(wantRoles) {
		t.Fatalf("expected %d contents, got %d", len(wantRoles), len(contents))
	}
	for i, want := range wantRoles {
		c := contents[i].(map[string]any)
		if c["role"] != want {
			t.Errorf("content %d: expected role %q, got %v", i, want, c["role"])
		}
	}
}

func TestSendMessage_SystemInstruction(t *testing.T) {
	var got generateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer server.Close()

	_, err := New().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
		Model:        "gemini-2.5-pro",
		SystemPrompt: "answer in French",
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: "hello"}},
		APIKey:       "k",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got.SystemInstruction == nil || len(got.SystemInstruction.Parts) != 1 {
		t.Fatalf("expected systemInstruction with one part, got %+v", got.SystemInstruction)
	}
	if text := got.SystemInstruction.Parts[0].Text; text == nil || *text != "answer in French" {
		t.Errorf("unexpected system instruction text %v", text)
	}
}

func TestSendMessage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no candidates", body: `{"candidates":[]}`},
		{name: "blocked", body: `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{name: "no content", body: `{"candidates":[{"finishReason":"SAFETY"}]}`},
		{name: "no parts", body: `{"candidates":[{"content":{"parts":[]}}]}`},
		{name: "no text", body: `{"candidates":[{"content":{"parts":[{"inlineData":{}}]}}]}`},
		{name: "wrong type", body: `{"candidates":[{"content":{"parts":[{"text":["a"]}]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := New().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
				Model:    "gemini-2.5-flash",
				Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
				APIKey:   "k",
			})
			if !errors.Is(err, ai.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

// TestSendMessage_RejectedDoesNotLeakKey checks a 400 is a rejection and the
// key in the query string is absent from the error text.
func TestSendMessage_RejectedDoesNotLeakKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
	}))
	defer server.Close()

	_, err := New().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
		Model:    "gemini-2.5-flash",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		APIKey:   "AIza-secret",
	})
	if !errors.Is(err, ai.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("expected vendor message, got %v", err)
	}
	if strings.Contains(err.Error(), "AIza-secret") {
		t.Errorf("error leaks credential: %v", err)
	}
}

func TestEndpoint_EscapesKey(t *testing.T) {
	p := New().WithBaseURL("https://example.test/v1beta").(*GeminiProvider)
	got := p.endpoint("gemini-2.5-pro", "a&b=c")
	want := "https://example.test/v1beta/models/gemini-2.5-pro:generateContent?key=a%26b%3Dc"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
