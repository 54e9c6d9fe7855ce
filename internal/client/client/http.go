package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/google/uuid"
)

// TokenSource yields the bearer token of the current session, "" for none.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Request describes one API call relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Transport is what the endpoint registry needs from the network.
type Transport interface {
	Do(ctx context.Context, req Request, out any) error
}

type HTTPTransport struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     logging.Logger
}

// NewHTTPTransport builds a transport for baseURL. A zero timeout disables
// the per-request deadline.
func NewHTTPTransport(baseURL string, timeout time.Duration, tokens TokenSource, logger logging.Logger) (*HTTPTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}

	return &HTTPTransport{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger.With("component", "http"),
	}, nil
}

// URL resolves path (and query) against the base URL.
func (t *HTTPTransport) URL(path string, query url.Values) string {
	u := *t.baseURL
	u.Path = t.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do sends req and decodes the payload into out (nil to discard). The
// payload is the value under "data" when the body is an envelope.
func (t *HTTPTransport) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.URL(req.Path, req.Query), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := t.tokens.Token(); token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		t.logger.Warn(ctx, "request failed", "method", req.Method, "path", req.Path, "request_id", requestID, "error", err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	t.logger.Debug(ctx, "request done",
		"method", req.Method, "path", req.Path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeData(raw, out)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeData unwraps {"data": ...} when present and decodes the payload.
func decodeData(raw []byte, out any) error {
	payload := raw
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
			payload = env.Data
		}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func decodeError(code int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}

	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return &StatusError{Code: code, Message: msg}
	}
	if code == http.StatusUnprocessableEntity || len(body.Errors) > 0 {
		return &ValidationError{Message: msg, Fields: body.Errors}
	}
	return &StatusError{Code: code, Message: msg}
}

// IsUnauthorized reports whether err means the credential was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
