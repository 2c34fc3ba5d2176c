package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/observability"
)

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption is an extra request header.
type HeaderOption struct {
	Key   string
	Value string
}

// BearerAuth returns the Authorization header used by chat-completions vendors.
func BearerAuth(apiKey string) HeaderOption {
	return HeaderOption{Key: "Authorization", Value: "Bearer " + apiKey}
}

// DoPostSync performs a synchronous HTTP POST with a JSON body and decodes a
// 2xx response into OutputStruct. Every failure is returned as an
// [*ai.ProviderError] attributed to provider:
//
//   - no HTTP response (transport error, timeout, cancellation): [ai.ErrNetwork]
//   - 401 or 403: [ai.ErrAuth]
//   - any other non-2xx: [ai.ErrRejected]
//   - 2xx body that does not decode into OutputStruct: [ai.ErrMalformedResponse]
//
// For non-2xx statuses the vendor's own error message is extracted from the
// body (see [VendorErrorMessage]). The response body is always closed.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, provider ai.ProviderID, endpoint string, body any, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	observer := observability.ObserverFromContext(ctx)
	if observer == nil {
		observer = observability.Nop
	}

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	redacted := RedactURL(endpoint)
	observer.Trace(ctx, "http request prepared",
		observability.String(observability.AttrLLMProvider, string(provider)),
		observability.String(observability.AttrLLMEndpoint, redacted),
		observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, &ai.ProviderError{Provider: provider, Kind: ai.ErrNetwork, Message: "could not build request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		observer.Debug(ctx, "http request failed",
			observability.String(observability.AttrLLMEndpoint, redacted),
			observability.Duration(observability.AttrHTTPDuration, requestDuration),
			observability.Error(err),
		)
		return res, nil, &ai.ProviderError{Provider: provider, Kind: ai.ErrNetwork, Message: transportMessage(ctx, err), Err: err}
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, &ai.ProviderError{Provider: provider, Kind: ai.ErrNetwork, StatusCode: res.StatusCode, Message: "error reading response body", Err: err}
	}

	observer.Debug(ctx, "http response received",
		observability.String(observability.AttrLLMEndpoint, redacted),
		observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
		observability.Duration(observability.AttrHTTPDuration, requestDuration),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		kind := ai.ErrRejected
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			kind = ai.ErrAuth
		}
		return res, nil, &ai.ProviderError{
			Provider:   provider,
			Kind:       kind,
			StatusCode: res.StatusCode,
			Message:    VendorErrorMessage(res.Header.Get("Content-Type"), respBody),
		}
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, &ai.ProviderError{
			Provider:   provider,
			Kind:       ai.ErrMalformedResponse,
			StatusCode: res.StatusCode,
			Message:    fmt.Sprintf("could not decode response: %v (body: %s)", err, TruncateString(string(respBody), 200)),
			Err:        err,
		}
	}

	return res, &resStruct, nil
}

// transportMessage phrases a transport failure for a transcript reader.
func transportMessage(ctx context.Context, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return "request cancelled"
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "request timed out"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "request timed out"
		}
		// url.Error repeats the full URL, which may carry a credential.
		return urlErr.Err.Error()
	}
	return err.Error()
}

// RedactURL strips the query string so credentials passed as query
// parameters never reach the logs.
func RedactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// CloseWithLog closes c and logs, rather than returns, any error.
func CloseWithLog(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
