package ai

import (
	"errors"
	"fmt"
)

// Failure classes for a provider exchange. Match them with [errors.Is] on the
// error returned by [Provider.SendMessage].
var (
	// ErrNetwork means the request never produced an HTTP response
	// (DNS, connection, TLS, timeout or cancellation).
	ErrNetwork = errors.New("network error")

	// ErrAuth means the vendor refused the credential (401 or 403).
	ErrAuth = errors.New("authentication failed")

	// ErrRejected means the vendor answered with any other non-2xx status.
	ErrRejected = errors.New("request rejected")

	// ErrMalformedResponse means a 2xx body did not contain a reply at the
	// expected path, or the path held a value of the wrong type.
	ErrMalformedResponse = errors.New("malformed response")
)

// ProviderError describes a failed provider exchange. Kind is one of the
// sentinel classes above; Err, when set, is the underlying cause.
type ProviderError struct {
	Provider   ProviderID
	Kind       error
	StatusCode int    // zero when no HTTP response was received
	Message    string // human-readable description, safe to show in a transcript
	Err        error
}

// Error renders the error as "<provider>: <kind>: <message>".
func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	name := string(e.Provider)
	if info, ok := catalogByID[e.Provider]; ok {
		name = info.DisplayName
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v (status %d): %s", name, e.Kind, e.StatusCode, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %v", name, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", name, e.Kind, msg)
}

// Unwrap exposes both the failure class and the underlying cause to errors.Is / errors.As.
func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewMalformedResponseError builds an [ErrMalformedResponse] error for provider.
func NewMalformedResponseError(provider ProviderID, format string, args ...any) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     ErrMalformedResponse,
		Message:  fmt.Sprintf(format, args...),
	}
}
