package store

import (
	"context"
	"errors"

	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/kv"
)

// Credentials maps a provider to its secret. An empty string means absent.
type Credentials map[ai.ProviderID]string

// Has reports whether a non-empty credential exists for id.
func (c Credentials) Has(id ai.ProviderID) bool {
	return c[id] != ""
}

// Clone returns an independent copy.
func (c Credentials) Clone() Credentials {
	out := make(Credentials, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// CredentialStore persists one key per provider (see [CredentialKey]).
type CredentialStore struct {
	kv kv.Store
}

// NewCredentialStore wraps backend.
func NewCredentialStore(backend kv.Store) *CredentialStore {
	return &CredentialStore{kv: backend}
}

// Load reads every provider's credential. Failures on individual keys are
// joined into the returned error; the credentials that did load are still
// returned.
func (s *CredentialStore) Load(ctx context.Context) (Credentials, error) {
	creds := make(Credentials)
	var errs []error
	for _, id := range ai.Providers() {
		key := CredentialKey(id)
		value, err := s.kv.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, &StorageError{Op: "load", Key: key, Err: err})
			continue
		}
		if len(value) > 0 {
			creds[id] = string(value)
		}
	}
	return creds, errors.Join(errs...)
}

// Save writes every catalog provider's credential; empty values delete the key.
func (s *CredentialStore) Save(ctx context.Context, creds Credentials) error {
	var errs []error
	for _, id := range ai.Providers() {
		key := CredentialKey(id)
		if value := creds[id]; value != "" {
			if err := s.kv.Set(ctx, key, []byte(value)); err != nil {
				errs = append(errs, &StorageError{Op: "save", Key: key, Err: err})
			}
			continue
		}
		if err := s.kv.Delete(ctx, key); err != nil {
			errs = append(errs, &StorageError{Op: "delete", Key: key, Err: err})
		}
	}
	return errors.Join(errs...)
}
