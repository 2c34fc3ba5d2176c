// Package kv defines the key/value capability the conversation, credential
// and settings stores are persisted through.
//
// Three implementations are bundled: [github.com/leofalp/quickchat/providers/kv/inmemory]
// for tests, [github.com/leofalp/quickchat/providers/kv/bolt] backed by a
// bbolt file and [github.com/leofalp/quickchat/providers/kv/sqlite] backed by
// a single SQLite table. Package kvtest holds the behavioral suite they share.
package kv
