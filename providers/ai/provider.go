package ai

import (
	"context"
	"net/http"
)

// Provider is the core interface that every vendor client must satisfy. A
// provider translates a normalized [ChatRequest] into exactly one outbound
// HTTP exchange and parses the reply back into a [ChatResponse].
//
// Implementations do not retry and do not cache. Every failure is returned as
// a [*ProviderError] classified as one of [ErrNetwork], [ErrAuth],
// [ErrRejected] or [ErrMalformedResponse].
type Provider interface {
	// SendMessage sends the transcript in request and returns the first
	// reply the vendor produced. The credential travels in request.APIKey.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// ID reports which catalog entry this client serves.
	ID() ProviderID

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
