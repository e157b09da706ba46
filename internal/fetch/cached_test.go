package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, ns, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[ns+"/"+key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, ns, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ns+"/"+key] = value
	c.ttls[ns+"/"+key] = ttl
	return nil
}

func (c *mapCache) Delete(_ context.Context, ns, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ns+"/"+key)
	return nil
}

func countingServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprintf(w, "<html><body><main>Page %s</main></body></html>", r.URL.Path)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDefaultCachedFetcherConfig(t *testing.T) {
	config := DefaultCachedFetcherConfig()

	require.NotNil(t, config)
	assert.Equal(t, DefaultPageCacheTTL, config.CacheTTL)
	assert.Equal(t, DefaultConcurrency, config.Concurrency)
	assert.False(t, config.SkipCache)
	assert.NotNil(t, config.Options)
}

func TestNewCachedFetcher_EmptyConfig(t *testing.T) {
	fetcher := NewCachedFetcher(nil, &CachedFetcherConfig{})

	assert.Equal(t, DefaultPageCacheTTL, fetcher.cacheTTL)
	assert.Equal(t, DefaultConcurrency, fetcher.concurrency)
	assert.NotNil(t, fetcher.options)
}

func TestCachedFetcher_CachesSuccessfulFetch(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	cache := newMapCache()
	fetcher := NewCachedFetcher(cache, nil)

	first, err := fetcher.Fetch(context.Background(), server.URL+"/job")
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, "Page /job", first.Text)

	second, err := fetcher.Fetch(context.Background(), server.URL+"/job")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, DefaultPageCacheTTL, cache.ttls[PageNamespace+"/"+server.URL+"/job"])
}

func TestCachedFetcher_DoesNotCacheFailures(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	cache := newMapCache()
	fetcher := NewCachedFetcher(cache, nil)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestCachedFetcher_Invalidate(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	fetcher := NewCachedFetcher(newMapCache(), nil)
	ctx := context.Background()

	_, err := fetcher.Fetch(ctx, server.URL+"/job")
	require.NoError(t, err)
	require.NoError(t, fetcher.Invalidate(ctx, server.URL+"/job"))

	result, err := fetcher.Fetch(ctx, server.URL+"/job")
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCachedFetcher_SkipCache(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	fetcher := NewCachedFetcher(newMapCache(), &CachedFetcherConfig{SkipCache: true})

	for i := 0; i < 2; i++ {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/job")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCachedFetcher_FetchMultiplePreservesOrder(t *testing.T) {
	var hits int32
	server := countingServer(t, &hits)
	fetcher := NewCachedFetcher(nil, &CachedFetcherConfig{Concurrency: 2})

	urls := []string{server.URL + "/a", server.URL + "/missing", server.URL + "/c"}
	results, errs := fetcher.FetchMultiple(context.Background(), urls)

	require.Len(t, results, 3)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.Equal(t, "Page /a", results[0].Text)
	assert.Error(t, errs[1])
	assert.Nil(t, results[1])
	assert.NoError(t, errs[2])
	assert.Equal(t, "Page /c", results[2].Text)
}
