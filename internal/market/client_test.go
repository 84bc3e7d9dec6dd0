package market

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	apperrors "nestquest/internal/errors"
	"nestquest/internal/query"
	"nestquest/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger(io.Discard, "ERROR")
	os.Exit(m.Run())
}

func newTestClient(handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	queries := query.NewClient(query.NewMemoryStore())
	client := NewClient(server.URL, queries, opts...)
	return client, server
}

func TestBearerCredentialSentOncePerRequest(t *testing.T) {
	var gotAuth atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"ok"}`))
	})

	client, server := newTestClient(handler, WithCredentialSource(func() string { return "tok-1" }))
	defer server.Close()

	_, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth.Load())
}

func TestNoAuthorizationHeaderWithoutCredential(t *testing.T) {
	var gotAuth atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Authorization"]
		gotAuth.Store(present)
		w.Write([]byte(`{}`))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	_, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, false, gotAuth.Load())
}

func TestUnauthorizedResponseFiresHook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	})

	var dropped atomic.Bool
	client, server := newTestClient(handler,
		WithCredentialSource(func() string { return "stale" }),
		WithUnauthorizedHook(func() { dropped.Store(true) }),
	)
	defer server.Close()

	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.True(t, dropped.Load())
}
