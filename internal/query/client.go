package query

import (
	"context"
	"encoding/json"
	"time"

	"nestquest/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads one resource from the network.
type Fetcher func(ctx context.Context) (json.RawMessage, error)

// requestTimeout bounds every outgoing request; the backend gives no
// server-side guarantee, so a stuck request surfaces as a timeout error.
const requestTimeout = 15 * time.Second

// Client is the generic request cache used by every list and detail screen.
// Queries for distinct keys proceed independently; queries sharing a key are
// deduplicated so concurrent callers share one in-flight request.
type Client struct {
	store   Store
	group   singleflight.Group
	timeout time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(store Store, opts ...Option) *Client {
	c := &Client{
		store:   store,
		timeout: requestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query returns the cached value for key, fetching it when the entry is
// absent, stale, or errored. No automatic retry.
func (c *Client) Query(ctx context.Context, key string, fetch Fetcher) (json.RawMessage, error) {
	return c.QueryRetry(ctx, key, 0, fetch)
}

// QueryRetry is Query with a small fixed retry budget, used for role and
// profile lookups.
func (c *Client) QueryRetry(ctx context.Context, key string, retries int, fetch Fetcher) (json.RawMessage, error) {
	if entry, ok := c.store.Get(ctx, key); ok && entry.State == StateReady && !entry.Stale {
		metrics.CacheHitsTotal.Inc()
		return entry.Data, nil
	}
	metrics.CacheMissesTotal.Inc()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// The flight runs on a detached context: a caller that navigates
		// away abandons its result, but the shared fetch still completes
		// and fills the cache for the next screen.
		fctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		data, err := c.fetchWithRetry(fctx, retries, fetch)
		now := time.Now()
		if err != nil {
			_ = c.store.Set(fctx, key, &Entry{State: StateError, Error: err.Error(), FetchedAt: now})
			return nil, err
		}
		_ = c.store.Set(fctx, key, &Entry{Data: data, State: StateReady, FetchedAt: now})
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

func (c *Client) fetchWithRetry(ctx context.Context, retries int, fetch Fetcher) (json.RawMessage, error) {
	attempts := retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := fetch(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt < attempts {
			time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
		}
	}
	return nil, lastErr
}

// Mutate runs a state-changing request and, on success, marks the declared
// keys stale. Mutations are never retried; a failure leaves all cached data
// from before the mutation intact.
func (c *Client) Mutate(ctx context.Context, fetch Fetcher, invalidates ...string) (json.RawMessage, error) {
	mctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := fetch(mctx)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, invalidates...)
	return data, nil
}

// Invalidate marks keys stale so the next access refetches instead of
// serving cached data. The entries themselves are refreshed, not destroyed.
func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		_ = c.store.MarkStale(ctx, key)
		metrics.CacheInvalidationsTotal.Inc()
	}
}

// InvalidatePrefix marks every key under the prefix stale, for list screens
// whose keys embed their pagination and filter parameters.
func (c *Client) InvalidatePrefix(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		_ = c.store.MarkStalePrefix(ctx, prefix)
		metrics.CacheInvalidationsTotal.Inc()
	}
}

// Peek exposes the raw cache entry for a key, including its state, without
// triggering a fetch.
func (c *Client) Peek(ctx context.Context, key string) (*Entry, bool) {
	return c.store.Get(ctx, key)
}
