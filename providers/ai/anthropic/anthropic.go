package anthropic

import (
	"context"
	"net/http"
	"os"

	"github.com/leofalp/quickchat/internal/utils"
	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/observability"
)

const (
	// defaultBaseURL is the canonical base URL for Anthropic's Messages API.
	defaultBaseURL = "https://api.anthropic.com/v1"

	// messagesEndpoint is the path for the Messages API endpoint.
	messagesEndpoint = "/messages"

	// anthropicVersion is the required anthropic-version header value.
	anthropicVersion = "2023-06-01"

	// maxOutputTokens is sent on every request; the API has no default.
	maxOutputTokens = 4096
)

// AnthropicProvider implements [ai.Provider] for Anthropic's Messages API.
// Use [New] to construct a ready-to-use instance.
type AnthropicProvider struct {
	baseURL string
	client  *http.Client
}

// New returns an [AnthropicProvider] reading ANTHROPIC_API_BASE_URL for the
// endpoint base (defaulting to https://api.anthropic.com/v1 when unset).
func New() *AnthropicProvider {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &AnthropicProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// ID implements [ai.Provider].
func (p *AnthropicProvider) ID() ai.ProviderID {
	return ai.ProviderAnthropic
}

// WithBaseURL overrides the API base URL and returns the provider so calls can
// be chained. Use this when targeting a proxy or local testing endpoint.
func (p *AnthropicProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls.
func (p *AnthropicProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// buildHeaders returns the headers required on every request. Anthropic
// authenticates with x-api-key rather than a Bearer token.
func buildHeaders(apiKey string) []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: apiKey},
		{Key: "anthropic-version", Value: anthropicVersion},
	}
}

// SendMessage implements [ai.Provider] by posting the transcript to the
// Messages API and returning the text of the first content block.
func (p *AnthropicProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	observer := observability.ObserverFromContext(ctx)

	if observer != nil {
		observer.Trace(ctx, "Anthropic provider preparing request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderAnthropic)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if request.APIKey == "" {
		return nil, &ai.ProviderError{Provider: ai.ProviderAnthropic, Kind: ai.ErrAuth, Message: "API key is not set"}
	}

	_, resp, err := utils.DoPostSync[anthropicResponse](
		ctx,
		p.client,
		ai.ProviderAnthropic,
		p.baseURL+messagesEndpoint,
		requestToAnthropic(request),
		buildHeaders(request.APIKey)...,
	)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	result, err := anthropicToGeneric(*resp)
	if err != nil {
		return nil, err
	}

	if result.Model == "" {
		result.Model = request.Model
	}

	if observer != nil {
		observer.Debug(ctx, "Anthropic reply received",
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMModel, result.Model),
		)
	}

	return result, nil
}
