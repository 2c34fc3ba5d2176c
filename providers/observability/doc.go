// Package observability defines the logging and metrics interfaces used
// throughout quickchat, plus the attribute-key conventions they share.
//
// The central entry point is [Provider], which composes [Metrics] and
// [Logger] into a single injectable dependency. The session attaches its
// Provider to every request context with [ContextWithObserver]; provider
// clients retrieve it with [ObserverFromContext]. Components that were given
// no observer use [Nop].
package observability
