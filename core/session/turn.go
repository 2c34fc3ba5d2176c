package session

import (
	"context"

	"github.com/leofalp/quickchat/providers/ai"
)

// Turn tracks one dispatched request.
type Turn struct {
	// ConversationID is the conversation the reply will be appended to.
	ConversationID string

	done  chan struct{}
	reply ai.Message
	err   error
}

func newTurn(conversationID string) *Turn {
	return &Turn{ConversationID: conversationID, done: make(chan struct{})}
}

func (t *Turn) finish(reply ai.Message, err error) {
	t.reply = reply
	t.err = err
	close(t.done)
}

// Done is closed once the turn has been applied or discarded.
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the turn completes or ctx ends. It returns the assistant
// message appended to the transcript (the reply, or the "Error: ..." entry)
// and the provider error when the exchange failed. A turn discarded because
// its conversation was deleted returns [ErrConversationNotFound]; one
// discarded by [Session.Close] returns [ErrClosed].
func (t *Turn) Wait(ctx context.Context) (ai.Message, error) {
	select {
	case <-t.done:
		return t.reply, t.err
	case <-ctx.Done():
		return ai.Message{}, ctx.Err()
	}
}
