package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leofalp/quickchat/providers/kv"
	"github.com/leofalp/quickchat/providers/kv/bolt"
	"github.com/leofalp/quickchat/providers/kv/inmemory"
	"github.com/leofalp/quickchat/providers/kv/sqlite"
)

// Store is a key/value backend the caller must close.
type Store interface {
	kv.Store
	Close() error
}

type memoryStore struct {
	*inmemory.Store
}

func (memoryStore) Close() error { return nil }

// StorePath returns the database file for the configured backend, or "" for
// the in-memory backend.
func (c *Config) StorePath() string {
	switch c.Backend {
	case BackendBolt:
		return filepath.Join(c.DataDir, "quickchat.db")
	case BackendSQLite:
		return filepath.Join(c.DataDir, "quickchat.sqlite")
	default:
		return ""
	}
}

// OpenStore opens the configured backend, creating the data directory.
func (c *Config) OpenStore() (Store, error) {
	if c.Backend == BackendMemory {
		return memoryStore{inmemory.New()}, nil
	}
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	switch c.Backend {
	case BackendBolt:
		store, err := bolt.Open(c.StorePath())
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSQLite:
		store, err := sqlite.Open(c.StorePath())
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}
