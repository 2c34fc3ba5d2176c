// Package slog provides an [observability.Provider] backed by log/slog.
// Counters and histograms are logged at debug level; counters also keep an
// in-memory running total readable with [Observer.CounterValue].
// [GetLogLevelFromEnv] reads QUICKCHAT_LOG_LEVEL, then LOG_LEVEL.
package slog
