package inmemory

import (
	"bytes"
	"context"
	"sync"

	"github.com/leofalp/quickchat/providers/kv"
)

// Store is a simple, concurrency-safe in-memory key/value store.
// It uses RWMutex to guard access and is efficient for read-heavy workloads.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New returns a new, empty [Store] ready for immediate use.
func New() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Ensure Store implements kv.Store at compile time.
var _ kv.Store = (*Store)(nil)

// Get returns a copy of the value so callers cannot mutate internal state.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return bytes.Clone(value), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.values[key] = bytes.Clone(value)
	s.mu.Unlock()
	return nil
}

// Delete removes key if present.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of keys stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
