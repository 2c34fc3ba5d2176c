// Package sqlite implements [kv.Store] on a pure-Go SQLite database
// (modernc.org/sqlite) using a single kv table.
package sqlite
