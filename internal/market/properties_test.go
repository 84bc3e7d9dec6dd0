package market

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"nestquest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPropertiesServedFromCache(t *testing.T) {
	var hits int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/properties", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Property{{ID: "p1", Title: "Lake House", Status: models.PropertyVerified}})
	})

	client, server := newTestClient(handler)
	defer server.Close()

	ctx := context.Background()
	params := models.PropertyListParams{Page: 1}

	first, err := client.ListProperties(ctx, params)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Lake House", first[0].Title)

	second, err := client.ListProperties(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// A different page is a different cache entry.
	_, err = client.ListProperties(ctx, models.PropertyListParams{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCreatePropertySubmitsPendingWithPriceRange(t *testing.T) {
	var submitted map[string]interface{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/properties", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
		json.NewEncoder(w).Encode(models.Property{ID: "p9", Title: submitted["title"].(string), Status: models.PropertyPending})
	})

	client, server := newTestClient(handler)
	defer server.Close()

	input := &models.PropertyInput{
		Title:      "Hilltop Villa",
		Location:   "Bandipur",
		Image:      "https://example.com/villa.jpg",
		MinPrice:   200000,
		MaxPrice:   350000,
		AgentName:  "Asha Gurung",
		AgentEmail: "asha@example.com",
	}

	created, err := client.CreateProperty(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)
	assert.Equal(t, models.PropertyPending, created.Status)

	assert.Equal(t, "pending", submitted["status"])
	assert.Equal(t, "$200000 - $350000", submitted["priceRange"])
}

func TestCreatePropertyInvalidatesListings(t *testing.T) {
	var listHits, agentHits int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(models.Property{ID: "p2"})
		case r.URL.Path == "/properties/agent/asha@example.com":
			atomic.AddInt32(&agentHits, 1)
			json.NewEncoder(w).Encode([]models.Property{})
		default:
			atomic.AddInt32(&listHits, 1)
			json.NewEncoder(w).Encode([]models.Property{})
		}
	})

	client, server := newTestClient(handler)
	defer server.Close()
	ctx := context.Background()

	_, err := client.ListProperties(ctx, models.PropertyListParams{Page: 1})
	require.NoError(t, err)
	_, err = client.AgentProperties(ctx, "asha@example.com")
	require.NoError(t, err)

	_, err = client.CreateProperty(ctx, &models.PropertyInput{
		Title: "New", Location: "Here", Image: "https://example.com/i.jpg",
		MinPrice: 1, MaxPrice: 2, AgentEmail: "asha@example.com",
	})
	require.NoError(t, err)

	// Both cached lists went stale and refetch on next access.
	_, err = client.ListProperties(ctx, models.PropertyListParams{Page: 1})
	require.NoError(t, err)
	_, err = client.AgentProperties(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&listHits))
	assert.Equal(t, int32(2), atomic.LoadInt32(&agentHits))
}

func TestVerifyPropertyRefreshesDetail(t *testing.T) {
	status := models.PropertyPending
	var patched bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch:
			patched = true
			status = models.PropertyVerified
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		default:
			json.NewEncoder(w).Encode(models.Property{ID: "p1", Status: status})
		}
	})

	client, server := newTestClient(handler)
	defer server.Close()
	ctx := context.Background()

	before, err := client.GetProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PropertyPending, before.Status)

	require.NoError(t, client.VerifyProperty(ctx, "p1"))
	assert.True(t, patched)

	after, err := client.GetProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PropertyVerified, after.Status)
}

func TestVerifyPropertyFailureKeepsCache(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			http.Error(w, `{"error":"not allowed"}`, http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(models.Property{ID: "p1", Status: models.PropertyPending})
	})

	client, server := newTestClient(handler)
	defer server.Close()
	ctx := context.Background()

	_, err := client.GetProperty(ctx, "p1")
	require.NoError(t, err)

	require.Error(t, client.VerifyProperty(ctx, "p1"))

	// The cached detail is untouched by the failed mutation.
	entry, ok := client.Queries().Peek(ctx, "property:p1")
	require.True(t, ok)
	assert.False(t, entry.Stale)
}
