package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/leofalp/quickchat/core/conversation"
	"github.com/leofalp/quickchat/core/session"
	"github.com/leofalp/quickchat/internal/config"
	"github.com/leofalp/quickchat/providers/observability"
	obsslog "github.com/leofalp/quickchat/providers/observability/slog"
	"github.com/leofalp/quickchat/providers/registry"
)

// shutdownTimeout bounds how long Close waits for cancelled requests.
const shutdownTimeout = 5 * time.Second

// App is bound into every command's Run method.
type App struct {
	ctx     context.Context
	cfg     *config.Config
	store   config.Store
	session *session.Session

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(ctx context.Context, configPath string, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(cfg)}))
	observer := obsslog.New(logger)
	ctx = observability.ContextWithObserver(ctx, observer)

	store, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}
	observer.Debug(ctx, "store opened",
		observability.String(observability.AttrStorageBackend, string(cfg.Backend)),
		observability.String(observability.AttrStoragePath, cfg.StorePath()),
	)

	sess := session.New(ctx, registry.New(cfg.RegistryOptions()...), store, session.WithObserver(observer))
	if err := sess.State().StorageErr; err != nil {
		fmt.Fprintln(stderr, "warning:", err)
	}

	return &App{
		ctx:     ctx,
		cfg:     cfg,
		store:   store,
		session: sess,
		in:      stdin,
		out:     stdout,
		errOut:  stderr,
	}, nil
}

// logLevel prefers the configured level, then LOG_LEVEL, then WARN so the
// transcript is not interleaved with routine logs.
func logLevel(cfg *config.Config) slog.Level {
	if cfg.LogLevel != "" {
		return obsslog.ParseLogLevel(cfg.LogLevel)
	}
	if os.Getenv("LOG_LEVEL") != "" {
		return obsslog.GetLogLevelFromEnv()
	}
	return slog.LevelWarn
}

// Close shuts the session down and closes the store.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.ctx), shutdownTimeout)
	defer cancel()
	return errors.Join(a.session.Close(ctx), a.store.Close())
}

// resolve finds a conversation by id or unique id prefix.
func (a *App) resolve(ref string) (conversation.Conversation, error) {
	ref = strings.TrimSpace(ref)
	var matches []conversation.Conversation
	for _, c := range a.session.Conversations() {
		if c.ID == ref {
			return c, nil
		}
		if ref != "" && strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return conversation.Conversation{}, fmt.Errorf("%w: %q", session.ErrConversationNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return conversation.Conversation{}, fmt.Errorf("ambiguous conversation id %q matches %d conversations", ref, len(matches))
	}
}
