package session

import (
	"time"

	"github.com/leofalp/quickchat/providers/observability"
)

// Option configures a [Session].
type Option func(*Session)

// WithClock replaces time.Now for message and conversation stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithObserver sets the observer used for logs and metrics and attached to
// every provider call.
func WithObserver(observer observability.Provider) Option {
	return func(s *Session) {
		s.observer = observer
	}
}
