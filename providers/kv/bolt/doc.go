// Package bolt implements [kv.Store] on a bbolt database file. Every key
// lives in one bucket.
package bolt
