package api

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
	"sync"
	"time"

	"github.com/dmitrijs2005/biztoolkit/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://localhost:5001/api"
	DefaultTimeout = 30 * time.Second

	RequestIDHeaderName = "X-Request-ID"

	maxErrorBody = 1 << 20
)

// HTTPClient is the JSON-over-HTTP Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger

	mu             sync.RWMutex
	onUnauthorized func(rejected string)
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client; its Timeout wins
// over the one passed to NewHTTPClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetUnauthorizedHandler registers fn to run after a 401 response to a
// request that carried a bearer token. fn receives that token; the
// persisted copy has been cleared if it still matched.
func (c *HTTPClient) SetUnauthorizedHandler(fn func(rejected string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response without token", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", input, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: register response without token", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: profile response without user", ErrMalformedResponse)
	}
	return resp.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, update ProfileUpdate) (UserFields, error) {
	var resp struct {
		User UserFields `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", update, &resp); err != nil {
		return nil, err
	}
	// reject members that cannot be merged into a User before anyone tries
	if _, err := (User{}).Merge(resp.User); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return resp.User, nil
}

func (c *HTTPClient) VerifyToken(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/verify-token", nil, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, requestID)

	var token string
	if c.tokens != nil {
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done", "method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.handleUnauthorized(ctx, token)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// handleUnauthorized acts on the token the rejected request carried. A
// newer token persisted meanwhile is left alone.
func (c *HTTPClient) handleUnauthorized(ctx context.Context, rejected string) {
	if c.tokens != nil {
		cleared, err := c.tokens.ClearToken(ctx, rejected)
		if err != nil {
			c.logger.Error(ctx, "failed to clear token after 401", "error", err)
		} else if !cleared {
			c.logger.Debug(ctx, "401 for a token no longer persisted")
		}
	}

	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(rejected)
	}
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(b) == 0 {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &payload) == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}
