// Package conversation holds the Conversation aggregate: an append-only
// transcript of [ai.Message] values with a title derived from the first
// prompt and a LastUpdated stamp used to order the conversation list.
package conversation
