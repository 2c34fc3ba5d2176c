// Package session implements the conversation state machine: it owns the open
// conversation, dispatches prompts to the selected provider client, appends
// replies (or visible "Error: ..." entries) to the transcript and persists
// the conversation collection.
//
// The session exposes plain commands and a [State] snapshot; presentation
// layers poll [Session.State] or register with [Session.Subscribe]. Timing of
// animations stays outside: [Session.SetTransitioning] only gates input.
//
// Each send runs on its own goroutine with a cancellable context. At most one
// request is in flight per conversation; deleting a conversation or closing
// the session cancels its request and discards the result.
package session
