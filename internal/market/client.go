package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "nestquest/internal/errors"
	"nestquest/internal/query"
	"nestquest/pkg/logger"
	"nestquest/pkg/metrics"
)

// Client is the marketplace REST client. Every list and detail read runs
// through the query cache; mutations declare the cache keys they
// invalidate. Auth is passed as a bearer credential header only; the
// legacy user-email header convention is not carried forward.
type Client struct {
	baseURL    string
	httpClient *http.Client
	credential func() string
	// onUnauthorized fires when the backend rejects the credential so the
	// session store can drop it.
	onUnauthorized func()
	queries        *query.Client
}

type Option func(*Client)

func WithCredentialSource(source func() string) Option {
	return func(c *Client) { c.credential = source }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

func NewClient(baseURL string, queries *query.Client, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		queries: queries,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		credential:     func() string { return "" },
		onUnauthorized: func() {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Queries exposes the underlying cache client for screens that need entry
// introspection.
func (c *Client) Queries() *query.Client {
	return c.queries
}

// get performs one read request. The credential slot is read exactly once
// per request.
func (c *Client) get(ctx context.Context, path, operation string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, operation, false)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, operation string, mutation bool) (json.RawMessage, error) {
	start := time.Now()
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, c.wrap(operation, 0, err, mutation)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GlobalLogger.Errorf("Backend request failed: operation=%s, method=%s, path=%s, error=%v", operation, method, path, err)
		return nil, c.wrap(operation, 0, err, mutation)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.wrap(operation, 0, err, mutation)
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.onUnauthorized()
		}
		return nil, c.wrap(operation, resp.StatusCode, fmt.Errorf("%s", truncate(respBody)), mutation)
	}

	return respBody, nil
}

func (c *Client) wrap(operation string, status int, err error, mutation bool) error {
	if mutation {
		return &apperrors.MutationError{Operation: operation, StatusCode: status, Err: err}
	}
	return &apperrors.FetchError{Operation: operation, StatusCode: status, Err: err}
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
