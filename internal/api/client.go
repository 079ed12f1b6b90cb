package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/animefeed/internal/logging"
)

// Session supplies the bearer token and is cleared when the server
// rejects it.
type Session interface {
	Token() string
	Clear() error
}

// publicPaths answer 401 for bad credentials rather than an expired
// session, so they bypass forced logout.
var publicPaths = []string{"/auth/login", "/auth/register"}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
	HTTPClient  *http.Client
	Logger      *logging.Logger

	// OnUnauthorized runs after the session was cleared because of a 401.
	OnUnauthorized func()
}

// Client is a thin HTTP client for the platform's JSON API. It handles
// Bearer token authentication, JSON marshaling, forced logout on 401 and
// retry with linear backoff on gateway errors and network failures.
type Client struct {
	baseURL        string
	session        Session
	httpClient     *http.Client
	maxAttempts    int
	backoff        time.Duration
	log            *logging.Logger
	onUnauthorized func()
}

// NewClient creates a new API client. session may be nil for anonymous use.
func NewClient(baseURL string, session Session, opts Options) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		session:        session,
		httpClient:     opts.HTTPClient,
		maxAttempts:    opts.MaxAttempts,
		backoff:        opts.Backoff,
		log:            opts.Logger,
		onUnauthorized: opts.OnUnauthorized,
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 3
	}
	if c.backoff <= 0 {
		c.backoff = time.Second
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	return c
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(
	ctx context.Context,
	path string,
	query url.Values,
	result interface{},
) error {
	return c.do(ctx, http.MethodGet, withQuery(path, query), nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body.
func (c *Client) Put(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request and unmarshals the JSON response.
func (c *Client) Delete(
	ctx context.Context,
	path string,
	result interface{},
) error {
	return c.do(ctx, http.MethodDelete, path, nil, result)
}

// withQuery appends encoded query values to path.
func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + query.Encode()
}

// retryableStatus reports whether a response status is a transient
// gateway failure worth retrying.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// isPublicPath reports whether path is a login/register endpoint.
func isPublicPath(path string) bool {
	p := path
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	for _, public := range publicPaths {
		if strings.HasSuffix(p, public) {
			return true
		}
	}
	return false
}

// do is the core HTTP method that builds the request, handles auth,
// transient-failure retries with linear backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	endpoint := c.baseURL + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	requestID := uuid.NewString()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * c.backoff
			c.log.Debug("retrying request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		if c.session != nil {
			if token := c.session.Token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			lastErr = fmt.Errorf("executing request %s %s: %w", method, path, err)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("reading response body: %w", readErr)
			continue
		}

		if retryableStatus(resp.StatusCode) {
			lastErr = &APIError{
				Status:  resp.StatusCode,
				Method:  method,
				Path:    path,
				Message: http.StatusText(resp.StatusCode),
			}
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized && !isPublicPath(path) {
			return c.handleUnauthorized()
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			msg := strings.TrimSpace(string(respBody))
			var envelope errorBody
			if json.Unmarshal(respBody, &envelope) == nil && envelope.text() != "" {
				msg = envelope.text()
			}
			return &APIError{
				Status:  resp.StatusCode,
				Method:  method,
				Path:    path,
				Message: msg,
			}
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w",
				method, path, err,
			)
		}

		return nil
	}

	return fmt.Errorf(
		"max attempts (%d) exceeded: %w", c.maxAttempts, lastErr,
	)
}

// handleUnauthorized clears the session and notifies the owner so the
// user is sent back to sign in.
func (c *Client) handleUnauthorized() error {
	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			c.log.Warn("clearing session after 401", zap.Error(err))
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return &AuthError{Message: "session expired or token rejected (401)"}
}
