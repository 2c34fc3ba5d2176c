package store

import (
	"errors"
	"fmt"
)

// ErrStorage matches every [*StorageError] through [errors.Is].
var ErrStorage = errors.New("storage error")

// StorageError reports a failed read, write or decode of a persisted key.
// In-memory state is never rolled back on a StorageError.
type StorageError struct {
	Op  string // "load", "save", "decode" or "delete"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes both [ErrStorage] and the underlying cause.
func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorage}
	}
	return []error{ErrStorage, e.Err}
}
