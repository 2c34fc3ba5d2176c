package registry

import (
	"fmt"
	"net/http"

	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/ai/anthropic"
	"github.com/leofalp/quickchat/providers/ai/gemini"
	"github.com/leofalp/quickchat/providers/ai/openai"
)

// Registry holds exactly one [ai.Provider] per catalog entry. It is
// immutable after [New] returns and safe for concurrent use.
type Registry struct {
	clients map[ai.ProviderID]ai.Provider
}

// Option customizes the clients built by [New].
type Option func(*options)

type options struct {
	baseURLs    map[ai.ProviderID]string
	httpClients map[ai.ProviderID]*http.Client
	overrides   map[ai.ProviderID]ai.Provider
}

// WithBaseURL points the client for id at baseURL.
func WithBaseURL(id ai.ProviderID, baseURL string) Option {
	return func(o *options) {
		o.baseURLs[id] = baseURL
	}
}

// WithHttpClient replaces the HTTP client used by the client for id.
func WithHttpClient(id ai.ProviderID, client *http.Client) Option {
	return func(o *options) {
		o.httpClients[id] = client
	}
}

// WithProvider installs p in place of the built-in client for p.ID().
func WithProvider(p ai.Provider) Option {
	return func(o *options) {
		o.overrides[p.ID()] = p
	}
}

// New builds one client per catalog entry and applies opts.
func New(opts ...Option) *Registry {
	o := &options{
		baseURLs:    make(map[ai.ProviderID]string),
		httpClients: make(map[ai.ProviderID]*http.Client),
		overrides:   make(map[ai.ProviderID]ai.Provider),
	}
	for _, opt := range opts {
		opt(o)
	}

	r := &Registry{clients: make(map[ai.ProviderID]ai.Provider, len(ai.Providers()))}
	for _, id := range ai.Providers() {
		if p, ok := o.overrides[id]; ok {
			r.clients[id] = p
			continue
		}

		p := builtin(id)
		if baseURL, ok := o.baseURLs[id]; ok && baseURL != "" {
			p = p.WithBaseURL(baseURL)
		}
		if client, ok := o.httpClients[id]; ok && client != nil {
			p = p.WithHttpClient(client)
		}
		r.clients[id] = p
	}
	return r
}

func builtin(id ai.ProviderID) ai.Provider {
	switch id {
	case ai.ProviderGemini:
		return gemini.New()
	case ai.ProviderGrok:
		return openai.NewGrok()
	case ai.ProviderAnthropic:
		return anthropic.New()
	case ai.ProviderOpenAI:
		return openai.New()
	default:
		panic(fmt.Sprintf("registry: no client for provider %q", id))
	}
}

// Client returns the provider client for id. Unknown identifiers panic.
func (r *Registry) Client(id ai.ProviderID) ai.Provider {
	p, ok := r.clients[id]
	if !ok {
		panic(fmt.Sprintf("registry: unknown provider %q", id))
	}
	return p
}
