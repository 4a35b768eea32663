package photos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Resolver{
		accessKey:       "test-key",
		baseURL:         srv.URL,
		client:          &http.Client{Timeout: time.Second},
		fallbackQueries: []string{"generic topic"},
	}
}

func TestResolvePrimaryQueryHit(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "coding desk", req.URL.Query().Get("query"))
		w.Write([]byte(`{"urls":{"regular":"https://img.example/primary.jpg"}}`))
	})

	photo := r.Resolve(context.Background(), "coding desk")
	assert.Equal(t, "https://img.example/primary.jpg", photo.URL)
	assert.Equal(t, "coding desk", photo.Query)
	assert.Equal(t, SourcePrimary, photo.Source)
}

func TestResolveFallsBackOnNoMatch(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("query") == "obscure thing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"urls":{"regular":"https://img.example/fallback.jpg"}}`))
	})

	photo := r.Resolve(context.Background(), "obscure thing")
	assert.Equal(t, "https://img.example/fallback.jpg", photo.URL)
	assert.Equal(t, "generic topic", photo.Query)
	assert.Equal(t, SourceFallback, photo.Source)
}

func TestResolveEmptyQuerySkipsToFallback(t *testing.T) {
	var queries []string
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		queries = append(queries, req.URL.Query().Get("query"))
		w.Write([]byte(`{"urls":{"regular":"https://img.example/fallback.jpg"}}`))
	})

	photo := r.Resolve(context.Background(), "   ")
	require.Len(t, queries, 1)
	assert.Equal(t, "generic topic", queries[0])
	assert.Equal(t, SourceFallback, photo.Source)
}

func TestResolvePlaceholderWhenProviderDown(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	photo := r.Resolve(context.Background(), "coding desk")
	assert.Equal(t, PlaceholderURL(), photo.URL)
	assert.Equal(t, SourcePlaceholder, photo.Source)
	assert.NotEmpty(t, photo.URL)
}

func TestResolvePlaceholderWithoutKey(t *testing.T) {
	r := NewResolver("")
	photo := r.Resolve(context.Background(), "coding desk")
	assert.Equal(t, PlaceholderURL(), photo.URL)
	assert.Equal(t, SourcePlaceholder, photo.Source)
}
