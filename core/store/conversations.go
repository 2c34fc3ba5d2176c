package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/quickchat/core/conversation"
	"github.com/leofalp/quickchat/providers/kv"
	"github.com/leofalp/quickchat/providers/observability"
)

// ConversationStore persists the whole conversation collection as one JSON
// array under [KeyConversations].
type ConversationStore struct {
	kv kv.Store
}

// NewConversationStore wraps backend.
func NewConversationStore(backend kv.Store) *ConversationStore {
	return &ConversationStore{kv: backend}
}

// Load returns the persisted collection in stored order and the id of the
// most recently updated conversation ("" when empty).
//
// A blob that fails to decode is passed through jsonrepair once. When that
// also fails Load returns an empty collection together with a
// [*StorageError], so callers can start fresh and report the problem.
// Entries without an id or without messages are dropped.
func (s *ConversationStore) Load(ctx context.Context) ([]conversation.Conversation, string, error) {
	observer := observerOrNop(ctx)

	data, err := s.kv.Get(ctx, KeyConversations)
	if errors.Is(err, kv.ErrNotFound) {
		return []conversation.Conversation{}, "", nil
	}
	if err != nil {
		return []conversation.Conversation{}, "", &StorageError{Op: "load", Key: KeyConversations, Err: err}
	}

	var convs []conversation.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return []conversation.Conversation{}, "", &StorageError{Op: "decode", Key: KeyConversations, Err: errors.Join(err, repairErr)}
		}
		convs = nil
		if retryErr := json.Unmarshal([]byte(repaired), &convs); retryErr != nil {
			return []conversation.Conversation{}, "", &StorageError{Op: "decode", Key: KeyConversations, Err: errors.Join(err, retryErr)}
		}
		observer.Warn(ctx, "conversation store repaired a corrupted blob",
			observability.String(observability.AttrStorageKey, KeyConversations),
			observability.Int(observability.AttrConversationCount, len(convs)),
			observability.Error(err),
		)
	}

	valid := make([]conversation.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.ID == "" || len(c.Messages) == 0 {
			observer.Warn(ctx, "dropping invalid persisted conversation",
				observability.String(observability.AttrConversationID, c.ID),
			)
			continue
		}
		valid = append(valid, c)
	}

	return valid, conversation.MostRecent(valid), nil
}

// Save replaces the persisted collection with convs.
func (s *ConversationStore) Save(ctx context.Context, convs []conversation.Conversation) error {
	if convs == nil {
		convs = []conversation.Conversation{}
	}
	data, err := json.Marshal(convs)
	if err != nil {
		return &StorageError{Op: "save", Key: KeyConversations, Err: err}
	}
	if err := s.kv.Set(ctx, KeyConversations, data); err != nil {
		return &StorageError{Op: "save", Key: KeyConversations, Err: err}
	}
	return nil
}

func observerOrNop(ctx context.Context) observability.Provider {
	if o := observability.ObserverFromContext(ctx); o != nil {
		return o
	}
	return observability.Nop
}
