package openai

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/leofalp/quickchat/internal/utils"
	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	defaultGrokBaseURL      = "https://api.x.ai/v1"
	chatCompletionsEndpoint = "/chat/completions"

	// requestTimeout bounds a single exchange end to end.
	requestTimeout = time.Hour
)

// OpenAIProvider implements the Provider interface for chat completions vendors.
type OpenAIProvider struct {
	id      ai.ProviderID
	baseURL string
	client  *http.Client
}

// New creates an OpenAI provider, reading OPENAI_API_BASE_URL.
func New() *OpenAIProvider {
	return newProvider(ai.ProviderOpenAI, "OPENAI_API_BASE_URL", defaultBaseURL)
}

// NewGrok creates a Grok provider, reading GROK_API_BASE_URL.
func NewGrok() *OpenAIProvider {
	return newProvider(ai.ProviderGrok, "GROK_API_BASE_URL", defaultGrokBaseURL)
}

func newProvider(id ai.ProviderID, baseURLEnv, fallback string) *OpenAIProvider {
	baseURL := os.Getenv(baseURLEnv)
	if baseURL == "" {
		baseURL = fallback
	}

	return &OpenAIProvider{
		id:      id,
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// ID implements [ai.Provider].
func (p *OpenAIProvider) ID() ai.ProviderID {
	return p.id
}

// WithBaseURL sets the base URL for the API
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements the Provider interface
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	observer := observability.ObserverFromContext(ctx)

	if observer != nil {
		observer.Trace(ctx, "chat completions provider preparing request",
			observability.String(observability.AttrLLMProvider, string(p.id)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	// check API key
	if request.APIKey == "" {
		return nil, &ai.ProviderError{Provider: p.id, Kind: ai.ErrAuth, Message: "API key is not set"}
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](
		ctx,
		p.client,
		p.id,
		p.baseURL+chatCompletionsEndpoint,
		requestFromGeneric(request),
		utils.BearerAuth(request.APIKey),
	)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	result, err := responseToGeneric(p.id, *resp)
	if err != nil {
		return nil, err
	}
	if result.Model == "" {
		result.Model = request.Model
	}

	if observer != nil {
		observer.Debug(ctx, "chat completions reply received",
			observability.String(observability.AttrLLMProvider, string(p.id)),
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMModel, result.Model),
		)
	}

	return result, nil
}
