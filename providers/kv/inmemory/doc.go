// Package inmemory provides a concurrency-safe, map-backed implementation
// of the [kv.Store] interface for process memory.
// It is designed for tests and for runs where persistence across restarts is
// not required. The main entry point is [New].
package inmemory
