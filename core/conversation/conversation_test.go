package conversation

import (
	"strings"
	"testing"
	"time"

	"github.com/leofalp/quickchat/providers/ai"
)

var base = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	c := New("What is the capital of France?", base)

	if c.ID == "" {
		t.Error("expected a generated id")
	}
	if c.Title != "What is the capital of France?" {
		t.Errorf("unexpected title %q", c.Title)
	}
	if len(c.Messages) != 1 || c.Messages[0].Role != ai.RoleUser || c.Messages[0].Content != "What is the capital of France?" {
		t.Errorf("unexpected messages %+v", c.Messages)
	}
	if !c.LastUpdated.Equal(base) {
		t.Errorf("expected LastUpdated %v, got %v", base, c.LastUpdated)
	}
	if c.HasReply() {
		t.Error("new conversation must not have a reply")
	}
}

// TestNew_TitleTruncation checks the 60 rune cut, multi-byte safety and that
// whitespace is preserved as typed.
func TestNew_TitleTruncation(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{name: "short", prompt: "hi", want: "hi"},
		{name: "exact", prompt: strings.Repeat("a", 60), want: strings.Repeat("a", 60)},
		{name: "long", prompt: strings.Repeat("b", 61), want: strings.Repeat("b", 60)},
		{name: "multibyte", prompt: strings.Repeat("é", 70), want: strings.Repeat("é", 60)},
		{name: "whitespace kept", prompt: "  leading\nand newline", want: "  leading\nand newline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.prompt, base).Title; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAppend_NonDecreasingStamp(t *testing.T) {
	c := New("hi", base)
	c.Append(ai.NewMessage(ai.RoleAssistant, "hello", base.Add(time.Second)))
	if !c.LastUpdated.Equal(base.Add(time.Second)) {
		t.Fatalf("expected stamp to advance, got %v", c.LastUpdated)
	}

	c.Append(ai.NewMessage(ai.RoleUser, "late clock", base))
	if !c.LastUpdated.Equal(base.Add(time.Second)) {
		t.Errorf("expected stamp not to move backwards, got %v", c.LastUpdated)
	}
	if len(c.Messages) != 3 {
		t.Errorf("expected 3 messages, got %d", len(c.Messages))
	}
	if !c.HasReply() {
		t.Error("expected HasReply after an assistant message")
	}
	last, ok := c.LastMessage()
	if !ok || last.Content != "late clock" {
		t.Errorf("unexpected last message %+v", last)
	}
}

func TestClone_Independent(t *testing.T) {
	c := New("hi", base)
	clone := c.Clone()
	clone.Append(ai.NewMessage(ai.RoleAssistant, "x", base))
	clone.Messages[0].Content = "changed"

	if len(c.Messages) != 1 || c.Messages[0].Content != "hi" {
		t.Errorf("original mutated through clone: %+v", c.Messages)
	}
}

// TestSorted orders newest first and keeps ties in input order.
func TestSorted(t *testing.T) {
	t1, t2, t3 := base, base.Add(time.Minute), base.Add(2*time.Minute)
	convs := []Conversation{
		{ID: "one", LastUpdated: t1},
		{ID: "three", LastUpdated: t3},
		{ID: "two-a", LastUpdated: t2},
		{ID: "two-b", LastUpdated: t2},
	}

	got := Sorted(convs)
	want := []string{"three", "two-a", "two-b", "one"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, got[i].ID)
		}
	}
	if convs[0].ID != "one" {
		t.Error("Sorted must not reorder its input")
	}
}

func TestMostRecentAndIndexOf(t *testing.T) {
	if MostRecent(nil) != "" {
		t.Error("expected empty id for no conversations")
	}
	convs := []Conversation{
		{ID: "a", LastUpdated: base},
		{ID: "b", LastUpdated: base.Add(time.Hour)},
		{ID: "c", LastUpdated: base.Add(time.Hour)},
	}
	if got := MostRecent(convs); got != "b" {
		t.Errorf("expected first of the newest, got %q", got)
	}
	if IndexOf(convs, "c") != 2 || IndexOf(convs, "zzz") != -1 {
		t.Error("unexpected IndexOf result")
	}
}
