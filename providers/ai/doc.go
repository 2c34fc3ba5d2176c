// Package ai defines the shared, provider-agnostic types used by every vendor
// client (Gemini, Grok, Anthropic, OpenAI). Each vendor package maps these
// types to its own wire format, keeping the conversation session decoupled
// from provider-specific details.
//
// The central interface is [Provider]. Requests flow through [ChatRequest]
// and replies come back as [ChatResponse]; failures are [*ProviderError]
// values classified by [ErrNetwork], [ErrAuth], [ErrRejected] and
// [ErrMalformedResponse].
//
// The static provider catalog ([Lookup], [Providers], [ParseProviderID])
// lists each vendor's models and the metadata the presentation layer shows
// when asking for a credential.
package ai
