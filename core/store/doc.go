// Package store holds the typed persistence wrappers the session is built
// on: [ConversationStore], [CredentialStore] and [SettingsStore]. Each wraps
// an injected [kv.Store], so tests substitute the in-memory backend and the
// CLI picks bbolt or SQLite.
//
// Every write failure is a [*StorageError] matching [ErrStorage].
package store
