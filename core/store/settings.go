package store

import (
	"context"
	"errors"

	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/kv"
	"github.com/leofalp/quickchat/providers/observability"
)

// Defaults used when nothing has been selected yet.
const (
	DefaultProvider = ai.ProviderGemini
	DefaultModel    = "gemini-2.5-flash"
)

// Settings is the persisted selection state.
type Settings struct {
	Provider     ai.ProviderID
	Model        string // always belongs to Provider's model list
	SystemPrompt string
}

// SettingsStore persists the selected provider and model and the system
// prompt as plain string values.
type SettingsStore struct {
	kv kv.Store
}

// NewSettingsStore wraps backend.
func NewSettingsStore(backend kv.Store) *SettingsStore {
	return &SettingsStore{kv: backend}
}

// Load returns the stored settings, falling back to [DefaultProvider] and
// [DefaultModel]. A stored provider without a stored model selects that
// provider's first model; a stored model outside the provider's list is
// replaced the same way.
func (s *SettingsStore) Load(ctx context.Context) (Settings, error) {
	observer := observerOrNop(ctx)
	settings := Settings{Provider: DefaultProvider, Model: DefaultModel}
	var errs []error

	providerName, providerFound, err := s.get(ctx, KeySelectedProvider)
	if err != nil {
		errs = append(errs, err)
	}
	if providerFound {
		if id, parseErr := ai.ParseProviderID(providerName); parseErr == nil {
			settings.Provider = id
			settings.Model = id.DefaultModel()
		} else {
			observer.Warn(ctx, "ignoring unknown stored provider",
				observability.String(observability.AttrLLMProvider, providerName),
			)
		}
	}

	model, modelFound, err := s.get(ctx, KeySelectedModel)
	if err != nil {
		errs = append(errs, err)
	}
	if modelFound {
		if settings.Provider.HasModel(model) {
			settings.Model = model
		} else {
			observer.Warn(ctx, "stored model does not belong to the selected provider",
				observability.String(observability.AttrLLMProvider, string(settings.Provider)),
				observability.String(observability.AttrLLMModel, model),
			)
			settings.Model = settings.Provider.DefaultModel()
		}
	}

	prompt, _, err := s.get(ctx, KeySystemPrompt)
	if err != nil {
		errs = append(errs, err)
	}
	settings.SystemPrompt = prompt

	return settings, errors.Join(errs...)
}

// LoadSystemPrompt returns the stored system prompt, "" when absent.
func (s *SettingsStore) LoadSystemPrompt(ctx context.Context) (string, error) {
	prompt, _, err := s.get(ctx, KeySystemPrompt)
	return prompt, err
}

// SaveSelection persists the provider (by display name) and model.
func (s *SettingsStore) SaveSelection(ctx context.Context, provider ai.ProviderID, model string) error {
	return errors.Join(
		s.set(ctx, KeySelectedProvider, ai.Lookup(provider).DisplayName),
		s.set(ctx, KeySelectedModel, model),
	)
}

// SaveSystemPrompt persists the system prompt.
func (s *SettingsStore) SaveSystemPrompt(ctx context.Context, prompt string) error {
	return s.set(ctx, KeySystemPrompt, prompt)
}

func (s *SettingsStore) get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "load", Key: key, Err: err}
	}
	return string(value), true, nil
}

func (s *SettingsStore) set(ctx context.Context, key, value string) error {
	if err := s.kv.Set(ctx, key, []byte(value)); err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	return nil
}
