package ai

import (
	"errors"
	"strings"
	"testing"
)

// TestProviders_Order verifies the catalog order presented to users.
func TestProviders_Order(t *testing.T) {
	got := Providers()
	want := []ProviderID{ProviderGemini, ProviderGrok, ProviderAnthropic, ProviderOpenAI}
	if len(got) != len(want) {
		t.Fatalf("expected %d providers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// TestLookup_EveryEntryComplete checks that each catalog entry carries the
// metadata the credential form needs and a non-empty model list.
func TestLookup_EveryEntryComplete(t *testing.T) {
	for _, id := range Providers() {
		info := Lookup(id)
		if info.ID != id {
			t.Errorf("%s: ID mismatch %q", id, info.ID)
		}
		if len(info.Models) == 0 {
			t.Errorf("%s: empty model list", id)
		}
		if info.DisplayName == "" || info.Icon == "" || info.Placeholder == "" || info.HelpText == "" {
			t.Errorf("%s: incomplete metadata %+v", id, info)
		}
		if id.DefaultModel() != info.Models[0] {
			t.Errorf("%s: default model %q, want %q", id, id.DefaultModel(), info.Models[0])
		}
	}
}

// TestLookup_ReturnsCopy ensures callers cannot mutate the catalog through
// the returned model slice.
func TestLookup_ReturnsCopy(t *testing.T) {
	models := Lookup(ProviderGemini).Models
	models[0] = "changed"
	if Lookup(ProviderGemini).Models[0] == "changed" {
		t.Fatal("expected Lookup to return an independent model slice")
	}
}

func TestLookup_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown provider")
		}
	}()
	Lookup("mistral")
}

func TestHasModel(t *testing.T) {
	if !ProviderAnthropic.HasModel("claude-opus-4-20250514") {
		t.Error("expected claude-opus-4-20250514 to belong to anthropic")
	}
	if ProviderAnthropic.HasModel("gpt-5-2025-08-07") {
		t.Error("expected gpt-5-2025-08-07 not to belong to anthropic")
	}
	if ProviderID("unknown").HasModel("x") {
		t.Error("expected unknown provider to have no models")
	}
}

func TestParseProviderID(t *testing.T) {
	tests := []struct {
		in      string
		want    ProviderID
		wantErr bool
	}{
		{in: "gemini", want: ProviderGemini},
		{in: "Google Gemini", want: ProviderGemini},
		{in: "  GROK ", want: ProviderGrok},
		{in: "anthropic", want: ProviderAnthropic},
		{in: "OpenAI", want: ProviderOpenAI},
		{in: "llama", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProviderID(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestProviderError_Classification verifies errors.Is matches both the failure
// class and the wrapped cause.
func TestProviderError_Classification(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&ProviderError{Provider: ProviderGrok, Kind: ErrNetwork, Err: cause})

	if !errors.Is(err, ErrNetwork) {
		t.Error("expected errors.Is(err, ErrNetwork)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}
	if errors.Is(err, ErrAuth) {
		t.Error("did not expect errors.Is(err, ErrAuth)")
	}
	if !strings.Contains(err.Error(), "connection refused") || !strings.HasPrefix(err.Error(), "Grok:") {
		t.Errorf("unexpected message %q", err.Error())
	}

	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Provider != ProviderGrok {
		t.Fatalf("expected errors.As to find *ProviderError, got %#v", pe)
	}
}

func TestProviderError_WithStatus(t *testing.T) {
	err := &ProviderError{Provider: ProviderAnthropic, Kind: ErrAuth, StatusCode: 401, Message: "invalid x-api-key"}
	want := "Anthropic: authentication failed (status 401): invalid x-api-key"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestNewMalformedResponseError(t *testing.T) {
	err := NewMalformedResponseError(ProviderGemini, "missing %s", "candidates")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatal("expected ErrMalformedResponse")
	}
	if err.Message != "missing candidates" {
		t.Errorf("unexpected message %q", err.Message)
	}
}
