package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the provider identifier (e.g., "gemini", "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "gpt-5-2025-08-07")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL, credentials stripped
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"

	// AttrHTTPStatusCode is the HTTP response status
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPRequestBodySize is the encoded request size in bytes
	AttrHTTPRequestBodySize = "http.request.body_size"

	// AttrHTTPDuration is the wall-clock duration of the exchange
	AttrHTTPDuration = "http.duration"
)

// --- Conversation Attributes ---

const (
	// AttrConversationID is the conversation a turn or mutation belongs to
	AttrConversationID = "conversation.id"

	// AttrConversationMessages is the message count after a mutation
	AttrConversationMessages = "conversation.messages"

	// AttrConversationCount is the size of the stored collection
	AttrConversationCount = "conversation.count"

	// AttrSessionState is the session phase after a transition
	AttrSessionState = "session.state"

	// AttrTurnOutcome is "success", "failure" or "discarded"
	AttrTurnOutcome = "turn.outcome"
)

// --- Storage Attributes ---

const (
	// AttrStorageKey is the key/value key touched by a store operation
	AttrStorageKey = "storage.key"

	// AttrStorageBackend is the configured key/value backend
	AttrStorageBackend = "storage.backend"

	// AttrStoragePath is the database file of a persistent backend
	AttrStoragePath = "storage.path"
)

// AttrError carries an error message.
const AttrError = "error"

// --- Metric names ---

const (
	// MetricTurnsTotal counts completed turns, labelled by provider and outcome
	MetricTurnsTotal = "quickchat.turns.total"

	// MetricTurnDuration records provider latency in milliseconds
	MetricTurnDuration = "quickchat.turn.duration_ms"

	// MetricStorageErrors counts failed persistence writes
	MetricStorageErrors = "quickchat.storage.errors"
)
