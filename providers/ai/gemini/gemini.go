package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/leofalp/quickchat/internal/utils"
	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/observability"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider implements the ai.Provider interface for Google's Gemini API.
type GeminiProvider struct {
	baseURL string
	client  *http.Client
}

// New creates a new Gemini provider instance with default values from environment.
// Environment variables:
//   - GEMINI_API_BASE_URL: Base URL for API (optional, defaults to Google's API)
func New() *GeminiProvider {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GeminiProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// ID implements [ai.Provider].
func (p *GeminiProvider) ID() ai.ProviderID {
	return ai.ProviderGemini
}

// WithBaseURL sets the base URL for the API.
func (p *GeminiProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// endpoint builds the generateContent URL with the key as a query parameter.
func (p *GeminiProvider) endpoint(model, apiKey string) string {
	query := url.Values{"key": {apiKey}}
	return fmt.Sprintf("%s/models/%s:generateContent?%s", p.baseURL, url.PathEscape(model), query.Encode())
}

// SendMessage implements the ai.Provider interface.
func (p *GeminiProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	observer := observability.ObserverFromContext(ctx)

	if observer != nil {
		observer.Trace(ctx, "Gemini provider preparing request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderGemini)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if request.APIKey == "" {
		return nil, &ai.ProviderError{Provider: ai.ProviderGemini, Kind: ai.ErrAuth, Message: "API key is not set"}
	}

	_, resp, err := utils.DoPostSync[generateContentResponse](
		ctx,
		p.client,
		ai.ProviderGemini,
		p.endpoint(request.Model, request.APIKey),
		requestToGemini(request),
	)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	result, err := geminiToGeneric(*resp)
	if err != nil {
		return nil, err
	}
	if result.Model == "" {
		result.Model = request.Model
	}

	if observer != nil {
		observer.Debug(ctx, "Gemini reply received",
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMModel, result.Model),
		)
	}

	return result, nil
}
