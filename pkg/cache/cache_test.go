package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func countingHandler(hits *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["sneaker"]`))
	})
}

func TestMiddlewareCachesConfiguredPath(t *testing.T) {
	client := testClient(t)
	hits := 0
	handler := Middleware(client, DefaultConfig())(countingHandler(&hits))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/sneakers", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/sneakers", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `["sneaker"]`, second.Body.String())

	assert.Equal(t, 1, hits, "second request should be served from cache")
}

func TestMiddlewareSkipsUnlistedPath(t *testing.T) {
	client := testClient(t)
	hits := 0
	handler := Middleware(client, DefaultConfig())(countingHandler(&hits))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/favorites/1", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2, hits, "unlisted paths must not be cached")
}

func TestMiddlewareSkipsNonGet(t *testing.T) {
	client := testClient(t)
	hits := 0
	cfg := Config{TTL: time.Minute, Paths: []string{"/api/sneakers"}}
	handler := Middleware(client, cfg)(countingHandler(&hits))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sneakers", nil))
	}

	assert.Equal(t, 2, hits)
}

func TestMiddlewareNilClient(t *testing.T) {
	hits := 0
	handler := Middleware(nil, DefaultConfig())(countingHandler(&hits))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sneakers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, hits)
}

func TestInvalidate(t *testing.T) {
	client := testClient(t)
	hits := 0
	handler := Middleware(client, DefaultConfig())(countingHandler(&hits))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sneakers", nil))
	require.Equal(t, 1, hits)

	require.NoError(t, Invalidate(context.Background(), client, "cache:*"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sneakers", nil))
	assert.Equal(t, 2, hits, "invalidated entry should not be served")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestInvalidateNilClient(t *testing.T) {
	assert.NoError(t, Invalidate(context.Background(), nil, "cache:*"))
}
