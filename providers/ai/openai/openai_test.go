package openai

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

func TestNew_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_BASE_URL", "")
	t.Setenv("GROK_API_BASE_URL", "")

	tests := []struct {
		name    string
		p       *OpenAIProvider
		id      ai.ProviderID
		baseURL string
	}{
		{name: "openai", p: New(), id: ai.ProviderOpenAI, baseURL: defaultBaseURL},
		{name: "grok", p: NewGrok(), id: ai.ProviderGrok, baseURL: defaultGrokBaseURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.p.ID() != tt.id {
				t.Errorf("expected ID %q, got %q", tt.id, tt.p.ID())
			}
			if tt.p.baseURL != tt.baseURL {
				t.Errorf("expected baseURL %q, got %q", tt.baseURL, tt.p.baseURL)
			}
			if tt.p.client.Timeout != requestTimeout {
				t.Errorf("expected %v timeout, got %v", requestTimeout, tt.p.client.Timeout)
			}
		})
	}
}

func TestNewGrok_BaseURLFromEnv(t *testing.T) {
	t.Setenv("GROK_API_BASE_URL", "http://grok.local/v1")
	if got := NewGrok().baseURL; got != "http://grok.local/v1" {
		t.Errorf("expected env base URL, got %q", got)
	}
}

// TestSendMessage_SystemFirst verifies the bearer header and that a non-empty
// system prompt is the first message.
func TestSendMessage_SystemFirst(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer xai-test" {
			t.Errorf("unexpected Authorization %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","model":"grok-code-fast-1","choices":[{"index":0,"message":{"role":"assistant","content":"4"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	response, err := NewGrok().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
		Model:        "grok-code-fast-1",
		SystemPrompt: "be terse",
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: "2+2?"},
		},
		APIKey: "xai-test",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if response.Content != "4" || response.Id != "chatcmpl-1" {
		t.Errorf("unexpected response %+v", response)
	}

	if got.Model != "grok-code-fast-1" {
		t.Errorf("unexpected model %q", got.Model)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "be terse" {
		t.Errorf("expected leading system message, got %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" {
		t.Errorf("expected user message second, got %+v", got.Messages[1])
	}
}

func TestSendMessage_NoSystemWhenEmpty(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`)
	}))
	defer server.Close()

	response, err := New().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
		Model:    "gpt-5-mini-2025-08-07",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hello"}},
		APIKey:   "sk-test",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	for _, m := range got.Messages {
		if m.Role == "system" {
			t.Fatalf("expected no system message, got %+v", got.Messages)
		}
	}
	if response.Model != "gpt-5-mini-2025-08-07" {
		t.Errorf("expected request model as fallback, got %q", response.Model)
	}
}

func TestSendMessage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"choices":[]}`},
		{name: "no message", body: `{"choices":[{"index":0}]}`},
		{name: "null content", body: `{"choices":[{"message":{"role":"assistant","content":null}}]}`},
		{name: "refusal", body: `{"choices":[{"message":{"role":"assistant","content":null,"refusal":"no"}}]}`},
		{name: "wrong type", body: `{"choices":[{"message":{"role":"assistant","content":7}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := New().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
				Model:    "gpt-5-2025-08-07",
				Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
				APIKey:   "sk",
			})
			if !errors.Is(err, ai.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "OpenAI:") {
				t.Errorf("expected error attributed to OpenAI, got %q", err.Error())
			}
		})
	}
}

func TestSendMessage_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit reached","type":"requests"}}`)
	}))
	defer server.Close()

	_, err := NewGrok().WithBaseURL(server.URL).SendMessage(context.Background(), ai.ChatRequest{
		Model:    "grok-4-fast-reasoning",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		APIKey:   "xai",
	})
	if !errors.Is(err, ai.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	var pe *ai.ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != http.StatusTooManyRequests || pe.Provider != ai.ProviderGrok {
		t.Errorf("unexpected error %#v", pe)
	}
}

func TestSendMessage_MissingKey(t *testing.T) {
	_, err := New().WithBaseURL("http://127.0.0.1:1").SendMessage(context.Background(), ai.ChatRequest{
		Model:    "gpt-5-2025-08-07",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if !errors.Is(err, ai.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}
