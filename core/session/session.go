package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/leofalp/quickchat/core/conversation"
	"github.com/leofalp/quickchat/core/store"
	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/kv"
	"github.com/leofalp/quickchat/providers/observability"
)

// errorPrefix starts every transcript entry that reports a failed exchange.
const errorPrefix = "Error: "

// Clients hands out the provider client for an identifier.
// [*registry.Registry] satisfies it.
type Clients interface {
	Client(id ai.ProviderID) ai.Provider
}

// draft is a working copy of a conversation with changes not yet merged
// into the committed collection.
type draft struct {
	conv      conversation.Conversation
	committed bool // already present in the collection
}

// flight is a dispatched request.
type flight struct {
	cancel context.CancelFunc
	turn   *Turn
}

// Session is the conversation state machine. All methods are safe for
// concurrent use; provider calls run on their own goroutines outside the lock.
type Session struct {
	clients       Clients
	conversations *store.ConversationStore
	credentials   *store.CredentialStore
	settings      *store.SettingsStore
	observer      observability.Provider
	now           func() time.Time

	baseCtx    context.Context
	cancelBase context.CancelFunc
	wg         sync.WaitGroup

	mu            sync.Mutex
	convs         []conversation.Conversation // committed, insertion order
	working       map[string]*draft
	inflight      map[string]*flight
	tombstones    map[string]struct{}
	activeID      string
	selectedID    string
	provider      ai.ProviderID
	model         string
	systemPrompt  string
	creds         store.Credentials
	input         string
	needsConfig   bool
	transitioning bool
	storageErr    error
	closed        bool
	listeners     map[int]func(State)
	nextListener  int
}

// New builds a session over backend and loads the persisted conversations,
// credentials and settings. Load failures do not prevent startup: they are
// logged and exposed as [State.StorageErr].
//
// Provider calls run under a context detached from ctx's cancellation but
// carrying its values; [Session.Close] cancels them.
func New(ctx context.Context, clients Clients, backend kv.Store, opts ...Option) *Session {
	s := &Session{
		clients:       clients,
		conversations: store.NewConversationStore(backend),
		credentials:   store.NewCredentialStore(backend),
		settings:      store.NewSettingsStore(backend),
		observer:      observability.ObserverFromContext(ctx),
		now:           time.Now,
		working:       make(map[string]*draft),
		inflight:      make(map[string]*flight),
		tombstones:    make(map[string]struct{}),
		creds:         make(store.Credentials),
		listeners:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		s.observer = observability.Nop
	}

	base := observability.ContextWithObserver(context.WithoutCancel(ctx), s.observer)
	s.baseCtx, s.cancelBase = context.WithCancel(base)

	s.load(s.baseCtx)
	return s
}

func (s *Session) load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, selected, err := s.conversations.Load(ctx)
	s.recordStorageErrLocked(ctx, err)
	s.convs = convs
	s.selectedID = selected

	creds, err := s.credentials.Load(ctx)
	s.recordStorageErrLocked(ctx, err)
	s.creds = creds

	settings, err := s.settings.Load(ctx)
	s.recordStorageErrLocked(ctx, err)
	s.provider = settings.Provider
	s.model = settings.Model
	s.systemPrompt = settings.SystemPrompt

	s.observer.Debug(ctx, "session loaded",
		observability.Int(observability.AttrConversationCount, len(s.convs)),
		observability.String(observability.AttrLLMProvider, string(s.provider)),
		observability.String(observability.AttrLLMModel, s.model),
	)
}

/*
	##### SENDING #####
*/

// StartNewConversation opens a new conversation holding prompt and sends it.
// Without a credential for the selected provider it returns a
// [*ConfigurationError], raises [State.NeedsConfiguration] and changes
// nothing else. The conversation joins the committed collection with its
// first successful reply.
func (s *Session) StartNewConversation(ctx context.Context, prompt string) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var turn *Turn
	err := s.mutate(func() (err error) {
		turn, err = s.startLocked(ctx, prompt)
		return err
	})
	return turn, err
}

// ContinueConversation appends prompt to the open conversation and sends the
// full transcript. At most one request per conversation may be in flight.
func (s *Session) ContinueConversation(ctx context.Context, prompt string) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var turn *Turn
	err := s.mutate(func() (err error) {
		turn, err = s.continueLocked(ctx, prompt)
		return err
	})
	return turn, err
}

// Submit sends the current input: it starts a conversation when none is open
// and continues the open one otherwise. The input is cleared on dispatch.
func (s *Session) Submit(ctx context.Context) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var turn *Turn
	err := s.mutate(func() (err error) {
		if s.activeID == "" {
			turn, err = s.startLocked(ctx, s.input)
		} else {
			turn, err = s.continueLocked(ctx, s.input)
		}
		if err == nil {
			s.input = ""
		}
		return err
	})
	return turn, err
}

func (s *Session) checkSendLocked(prompt string) error {
	switch {
	case s.closed:
		return ErrClosed
	case strings.TrimSpace(prompt) == "":
		return ErrEmptyPrompt
	case s.transitioning:
		return ErrTransitioning
	}
	return nil
}

func (s *Session) requireCredentialLocked() error {
	if s.creds.Has(s.provider) {
		return nil
	}
	s.needsConfig = true
	return &ConfigurationError{Provider: s.provider}
}

func (s *Session) startLocked(ctx context.Context, prompt string) (*Turn, error) {
	if err := s.checkSendLocked(prompt); err != nil {
		return nil, err
	}
	if err := s.requireCredentialLocked(); err != nil {
		return nil, err
	}

	conv := conversation.New(prompt, s.now())
	s.leaveActiveLocked()
	s.working[conv.ID] = &draft{conv: conv}
	s.activeID = conv.ID

	return s.dispatchLocked(ctx, conv), nil
}

func (s *Session) continueLocked(ctx context.Context, prompt string) (*Turn, error) {
	if err := s.checkSendLocked(prompt); err != nil {
		return nil, err
	}
	if s.activeID == "" {
		return nil, ErrNoActiveConversation
	}
	if _, busy := s.inflight[s.activeID]; busy {
		return nil, ErrAwaitingReply
	}
	if err := s.requireCredentialLocked(); err != nil {
		return nil, err
	}

	d := s.workingCopyLocked(s.activeID)
	if d == nil {
		return nil, ErrNoActiveConversation
	}
	d.conv.Append(ai.NewMessage(ai.RoleUser, prompt, s.now()))

	return s.dispatchLocked(ctx, d.conv), nil
}

// workingCopyLocked returns the draft for id, creating one from the committed
// conversation when needed.
func (s *Session) workingCopyLocked(id string) *draft {
	if d, ok := s.working[id]; ok {
		return d
	}
	idx := conversation.IndexOf(s.convs, id)
	if idx < 0 {
		return nil
	}
	d := &draft{conv: s.convs[idx].Clone(), committed: true}
	s.working[id] = d
	return d
}

func (s *Session) dispatchLocked(ctx context.Context, conv conversation.Conversation) *Turn {
	reqCtx, cancel := context.WithCancel(s.baseCtx)
	turn := newTurn(conv.ID)
	s.inflight[conv.ID] = &flight{cancel: cancel, turn: turn}

	provider := s.provider
	request := ai.ChatRequest{
		Model:        s.model,
		Messages:     slices.Clone(conv.Messages),
		SystemPrompt: s.systemPrompt,
		APIKey:       s.creds[provider],
	}
	client := s.clients.Client(provider)

	s.observer.Info(ctx, "dispatching turn",
		observability.String(observability.AttrConversationID, conv.ID),
		observability.String(observability.AttrLLMProvider, string(provider)),
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Int(observability.AttrConversationMessages, len(request.Messages)),
	)

	s.wg.Add(1)
	go s.run(reqCtx, cancel, client, request, turn)
	return turn
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, client ai.Provider, request ai.ChatRequest, turn *Turn) {
	defer s.wg.Done()
	defer cancel()

	start := time.Now()
	resp, err := client.SendMessage(ctx, request)
	if err == nil && resp == nil {
		err = ai.NewMalformedResponseError(client.ID(), "empty response")
	}
	s.complete(turn, client.ID(), resp, err, time.Since(start))
}

// complete applies a finished exchange. Results for deleted conversations or
// a closed session are discarded.
func (s *Session) complete(turn *Turn, provider ai.ProviderID, resp *ai.ChatResponse, sendErr error, elapsed time.Duration) {
	ctx := s.baseCtx
	id := turn.ConversationID

	var (
		reply   ai.Message
		result  error
		outcome string
	)

	_ = s.mutate(func() error {
		if f, ok := s.inflight[id]; ok && f.turn == turn {
			delete(s.inflight, id)
		}

		_, deleted := s.tombstones[id]
		d := s.working[id]
		switch {
		case s.closed:
			outcome, result = "discarded", ErrClosed
			return nil
		case deleted || d == nil:
			outcome, result = "discarded", ErrConversationNotFound
			return nil
		}

		if sendErr != nil {
			reply = ai.NewMessage(ai.RoleAssistant, errorPrefix+sendErr.Error(), s.now())
			outcome, result = "failure", sendErr
		} else {
			reply = ai.NewMessage(ai.RoleAssistant, resp.Content, s.now())
			outcome = "success"
		}
		d.conv.Append(reply)
		s.applyLocked(ctx, d, sendErr == nil)
		return nil
	})

	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, string(provider)),
		observability.String(observability.AttrTurnOutcome, outcome),
	}
	s.observer.Counter(observability.MetricTurnsTotal).Add(ctx, 1, attrs...)
	s.observer.Histogram(observability.MetricTurnDuration).Record(ctx, float64(elapsed.Milliseconds()), attrs[0])

	switch outcome {
	case "success":
		s.observer.Info(ctx, "turn completed",
			observability.String(observability.AttrConversationID, id),
			observability.Duration(observability.AttrHTTPDuration, elapsed),
		)
	case "failure":
		s.observer.Warn(ctx, "turn failed",
			observability.String(observability.AttrConversationID, id),
			observability.Error(sendErr),
		)
	default:
		s.observer.Info(ctx, "turn result discarded",
			observability.String(observability.AttrConversationID, id),
			observability.Error(result),
		)
	}

	turn.finish(reply, result)
}

// applyLocked merges a finished draft. Committed conversations are written
// back at their position whatever the outcome; a new conversation is
// committed by its first successful reply. A failed first turn stays as an
// uncommitted draft while it is open.
func (s *Session) applyLocked(ctx context.Context, d *draft, success bool) {
	id := d.conv.ID

	if d.committed {
		delete(s.working, id)
		idx := conversation.IndexOf(s.convs, id)
		if idx < 0 {
			s.observer.Warn(ctx, "conversation missing from collection, dropping turn result",
				observability.String(observability.AttrConversationID, id),
			)
			return
		}
		s.convs[idx] = d.conv
		s.persistLocked(ctx)
		return
	}

	if success {
		delete(s.working, id)
		s.convs = append(s.convs, d.conv)
		s.persistLocked(ctx)
		return
	}

	if s.activeID != id {
		delete(s.working, id)
	}
}

/*
	##### NAVIGATION #####
*/

// SelectConversation opens the conversation with id.
func (s *Session) SelectConversation(id string) error {
	return s.mutate(func() error {
		return s.openLocked(id)
	})
}

// OpenSelected opens the highlighted conversation.
func (s *Session) OpenSelected() error {
	return s.mutate(func() error {
		if s.selectedID == "" {
			return ErrConversationNotFound
		}
		return s.openLocked(s.selectedID)
	})
}

func (s *Session) openLocked(id string) error {
	if s.closed {
		return ErrClosed
	}
	committed := conversation.IndexOf(s.convs, id) >= 0
	if _, ok := s.working[id]; !ok && !committed {
		return ErrConversationNotFound
	}
	if id == s.activeID {
		return nil
	}
	s.leaveActiveLocked()
	s.activeID = id
	if committed {
		s.selectedID = id
	}
	return nil
}

// GoBack closes the open conversation and highlights the most recently
// updated one.
func (s *Session) GoBack() {
	_ = s.mutate(func() error {
		s.leaveActiveLocked()
		s.selectedID = conversation.MostRecent(s.convs)
		return nil
	})
}

// leaveActiveLocked clears the active slot. An uncommitted draft with no
// request in flight is discarded.
func (s *Session) leaveActiveLocked() {
	id := s.activeID
	if id == "" {
		return
	}
	if d, ok := s.working[id]; ok && !d.committed {
		if _, busy := s.inflight[id]; !busy {
			delete(s.working, id)
		}
	}
	s.activeID = ""
}

// SelectNext moves the highlight one entry down (or up) the sorted list,
// clamped at both ends.
func (s *Session) SelectNext(down bool) {
	_ = s.mutate(func() error {
		sorted := conversation.Sorted(s.convs)
		if len(sorted) == 0 {
			return nil
		}
		current := slices.IndexFunc(sorted, func(c conversation.Conversation) bool {
			return c.ID == s.selectedID
		})
		if current < 0 {
			if down {
				current = -1
			} else {
				current = 0
			}
		}
		next := current - 1
		if down {
			next = current + 1
		}
		next = max(0, min(len(sorted)-1, next))
		s.selectedID = sorted[next].ID
		return nil
	})
}

// SetTransitioning raises or lowers the input gate the presentation layer
// holds while animating a switch.
func (s *Session) SetTransitioning(on bool) {
	_ = s.mutate(func() error {
		s.transitioning = on
		return nil
	})
}

// SetInput replaces the prompt field text.
func (s *Session) SetInput(text string) {
	_ = s.mutate(func() error {
		s.input = text
		return nil
	})
}

/*
	##### DELETION #####
*/

// DeleteConversation removes the conversation, persists the collection and
// cancels any request in flight for it; that request's result is discarded.
// The active slot is cleared if it held the conversation and the highlight
// moves to the most recently updated remaining one.
func (s *Session) DeleteConversation(ctx context.Context, id string) error {
	ctx = s.withObserver(ctx)
	return s.mutate(func() error {
		if s.closed {
			return ErrClosed
		}
		idx := conversation.IndexOf(s.convs, id)
		_, hasDraft := s.working[id]
		if idx < 0 && !hasDraft {
			return ErrConversationNotFound
		}

		s.tombstones[id] = struct{}{}
		if f, ok := s.inflight[id]; ok {
			f.cancel()
		}
		delete(s.working, id)

		if s.activeID == id {
			s.activeID = ""
		}
		if s.selectedID == id {
			s.selectedID = ""
		}

		if idx >= 0 {
			s.convs = slices.Delete(s.convs, idx, idx+1)
			s.persistLocked(ctx)
		}
		if s.selectedID == "" {
			s.selectedID = conversation.MostRecent(s.convs)
		}

		s.observer.Info(ctx, "conversation deleted",
			observability.String(observability.AttrConversationID, id),
			observability.Int(observability.AttrConversationCount, len(s.convs)),
		)
		return nil
	})
}

/*
	##### SETTINGS #####
*/

// SelectModel selects provider and model and persists the selection.
func (s *Session) SelectModel(ctx context.Context, provider ai.ProviderID, model string) error {
	if !ai.Known(provider) {
		return fmt.Errorf("%w: unknown provider %q", ErrUnknownModel, provider)
	}
	if !provider.HasModel(model) {
		return fmt.Errorf("%w: %q is not a %s model", ErrUnknownModel, model, ai.Lookup(provider).DisplayName)
	}

	ctx = s.withObserver(ctx)
	return s.mutate(func() error {
		s.provider = provider
		s.model = model
		err := s.settings.SaveSelection(ctx, provider, model)
		s.recordStorageErrLocked(ctx, err)
		return err
	})
}

// SelectProvider selects provider with its first model.
func (s *Session) SelectProvider(ctx context.Context, provider ai.ProviderID) error {
	if !ai.Known(provider) {
		return fmt.Errorf("%w: unknown provider %q", ErrUnknownModel, provider)
	}
	return s.SelectModel(ctx, provider, provider.DefaultModel())
}

// EditCredential changes provider's credential in memory. The edit is used
// by the next send and persisted by [Session.SaveEdits].
func (s *Session) EditCredential(provider ai.ProviderID, value string) {
	_ = s.mutate(func() error {
		s.creds[provider] = strings.TrimSpace(value)
		return nil
	})
}

// EditSystemPrompt changes the system prompt in memory.
func (s *Session) EditSystemPrompt(prompt string) {
	_ = s.mutate(func() error {
		s.systemPrompt = prompt
		return nil
	})
}

// SaveEdits persists the credentials and system prompt and lowers
// [State.NeedsConfiguration].
func (s *Session) SaveEdits(ctx context.Context) error {
	ctx = s.withObserver(ctx)
	return s.mutate(func() error {
		s.needsConfig = false
		err := errors.Join(
			s.credentials.Save(ctx, s.creds),
			s.settings.SaveSystemPrompt(ctx, s.systemPrompt),
		)
		s.recordStorageErrLocked(ctx, err)
		return err
	})
}

// CancelEdits discards unsaved credential and system prompt edits by
// reloading them from the stores, and lowers [State.NeedsConfiguration].
func (s *Session) CancelEdits(ctx context.Context) error {
	ctx = s.withObserver(ctx)
	return s.mutate(func() error {
		s.needsConfig = false
		creds, err := s.credentials.Load(ctx)
		s.creds = creds
		prompt, promptErr := s.settings.LoadSystemPrompt(ctx)
		if promptErr == nil {
			s.systemPrompt = prompt
		}
		err = errors.Join(err, promptErr)
		s.recordStorageErrLocked(ctx, err)
		return err
	})
}

// DismissConfiguration lowers [State.NeedsConfiguration] without touching edits.
func (s *Session) DismissConfiguration() {
	_ = s.mutate(func() error {
		s.needsConfig = false
		return nil
	})
}

/*
	##### OBSERVATION #####
*/

// Conversations returns the committed collection, newest first.
func (s *Session) Conversations() []conversation.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return conversation.Sorted(s.convs)
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. fn runs on
// the goroutine that made the change, outside the session lock, and must not
// block. The returned function unregisters it.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// mutate runs fn under the lock, then notifies listeners.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	err := fn()
	var (
		snapshot  State
		listeners []func(State)
	)
	if len(s.listeners) > 0 {
		snapshot = s.snapshotLocked()
		ids := make([]int, 0, len(s.listeners))
		for id := range s.listeners {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			listeners = append(listeners, s.listeners[id])
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return err
}

func (s *Session) activeLocked() (conversation.Conversation, bool) {
	if s.activeID == "" {
		return conversation.Conversation{}, false
	}
	if d, ok := s.working[s.activeID]; ok {
		return d.conv, true
	}
	if idx := conversation.IndexOf(s.convs, s.activeID); idx >= 0 {
		return s.convs[idx], true
	}
	return conversation.Conversation{}, false
}

func (s *Session) snapshotLocked() State {
	st := State{
		Conversations:      conversation.Sorted(s.convs),
		SelectedID:         s.selectedID,
		Provider:           s.provider,
		Model:              s.model,
		SystemPrompt:       s.systemPrompt,
		Credentials:        s.creds.Clone(),
		Input:              s.input,
		NeedsConfiguration: s.needsConfig,
		Transitioning:      s.transitioning,
		StorageErr:         s.storageErr,
	}
	if conv, ok := s.activeLocked(); ok {
		active := conv.Clone()
		st.Active = &active
		_, st.Loading = s.inflight[s.activeID]
	}
	for id := range s.inflight {
		st.InFlight = append(st.InFlight, id)
	}
	slices.Sort(st.InFlight)

	switch {
	case s.transitioning:
		st.Status = Transitioning
	case st.Loading:
		st.Status = AwaitingReply
	case st.Active != nil:
		st.Status = Active
	default:
		st.Status = Idle
	}
	return st
}

/*
	##### PERSISTENCE #####
*/

func (s *Session) persistLocked(ctx context.Context) {
	if err := s.conversations.Save(ctx, s.convs); err != nil {
		s.recordStorageErrLocked(ctx, err)
		return
	}
	s.storageErr = nil
}

func (s *Session) recordStorageErrLocked(ctx context.Context, err error) {
	if err == nil {
		return
	}
	s.storageErr = err
	s.observer.Error(ctx, "persistence failed", observability.Error(err))
	s.observer.Counter(observability.MetricStorageErrors).Add(ctx, 1)
}

func (s *Session) withObserver(ctx context.Context) context.Context {
	if observability.ObserverFromContext(ctx) != nil {
		return ctx
	}
	return observability.ContextWithObserver(ctx, s.observer)
}

/*
	##### SHUTDOWN #####
*/

// Close cancels every request in flight and waits for their goroutines, or
// for ctx to end. Results arriving after Close are discarded and later
// commands return [ErrClosed].
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, f := range s.inflight {
		f.cancel()
	}
	s.mu.Unlock()
	s.cancelBase()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
