package conversation

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/quickchat/internal/utils"
	"github.com/leofalp/quickchat/providers/ai"
)

// TitleMaxRunes bounds the title derived from the first prompt.
const TitleMaxRunes = 60

// Conversation is an ordered chat transcript. Once persisted it always holds
// at least one message.
type Conversation struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Messages    []ai.Message `json:"messages"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// New starts a conversation from its first user prompt. The title is the
// prompt cut to [TitleMaxRunes] runes, whitespace kept as typed.
func New(prompt string, at time.Time) Conversation {
	return Conversation{
		ID:          uuid.NewString(),
		Title:       utils.TruncateRunes(prompt, TitleMaxRunes),
		Messages:    []ai.Message{ai.NewMessage(ai.RoleUser, prompt, at)},
		LastUpdated: at,
	}
}

// Append adds msg to the transcript and stamps LastUpdated with its
// timestamp. LastUpdated never moves backwards.
func (c *Conversation) Append(msg ai.Message) {
	c.Messages = append(c.Messages, msg)
	c.Touch(msg.Timestamp)
}

// Touch advances LastUpdated to at unless it is already later.
func (c *Conversation) Touch(at time.Time) {
	if at.After(c.LastUpdated) {
		c.LastUpdated = at
	}
}

// Clone returns a copy whose message slice is independent of c's.
func (c Conversation) Clone() Conversation {
	c.Messages = slices.Clone(c.Messages)
	return c
}

// LastMessage returns the final transcript entry, if any.
func (c Conversation) LastMessage() (ai.Message, bool) {
	if len(c.Messages) == 0 {
		return ai.Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// HasReply reports whether any assistant message is in the transcript.
func (c Conversation) HasReply() bool {
	return slices.ContainsFunc(c.Messages, func(m ai.Message) bool {
		return m.Role == ai.RoleAssistant
	})
}

// Sorted returns deep copies of convs ordered by LastUpdated, newest first.
// Ties keep their input order.
func Sorted(convs []Conversation) []Conversation {
	out := make([]Conversation, len(convs))
	for i, c := range convs {
		out[i] = c.Clone()
	}
	slices.SortStableFunc(out, func(a, b Conversation) int {
		return b.LastUpdated.Compare(a.LastUpdated)
	})
	return out
}

// MostRecent returns the id of the most recently updated conversation, or ""
// when convs is empty.
func MostRecent(convs []Conversation) string {
	best := -1
	for i, c := range convs {
		if best < 0 || c.LastUpdated.After(convs[best].LastUpdated) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return convs[best].ID
}

// IndexOf returns the position of the conversation with id, or -1.
func IndexOf(convs []Conversation, id string) int {
	return slices.IndexFunc(convs, func(c Conversation) bool {
		return c.ID == id
	})
}
