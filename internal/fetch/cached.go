package fetch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-optimizer/internal/logging"
)

// PageNamespace is the cache namespace for fetched pages.
const PageNamespace = "pages"

// DefaultPageCacheTTL is how long a fetched page stays fresh.
const DefaultPageCacheTTL = 24 * time.Hour

// DefaultConcurrency bounds parallel fetches in FetchMultiple.
const DefaultConcurrency = 4

// PageCache stores fetched pages. Any error from Get is treated as a miss.
type PageCache interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, namespace, key string) error
}

// CachedFetcher wraps URL fetching with an optional page cache.
type CachedFetcher struct {
	cache       PageCache
	options     *Options
	cacheTTL    time.Duration
	skipCache   bool
	concurrency int
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL    time.Duration
	SkipCache   bool
	Concurrency int
	Options     *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:    DefaultPageCacheTTL,
		Concurrency: DefaultConcurrency,
		Options:     DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. A nil cache disables caching.
func NewCachedFetcher(cache PageCache, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultPageCacheTTL
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	return &CachedFetcher{
		cache:       cache,
		options:     config.Options,
		cacheTTL:    config.CacheTTL,
		skipCache:   config.SkipCache,
		concurrency: config.Concurrency,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

// Fetch retrieves a URL, serving a fresh cached copy when one exists.
// Only successful fetches are cached.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	log := logging.Get().WithField("url", urlStr)

	if f.useCache() {
		if cached, ok := f.lookup(ctx, urlStr); ok {
			log.Debug("page cache hit")
			return &CachedResult{Result: cached, FromCache: true}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	text, _ := ExtractMainText(result.HTML, PlatformContentSelectors(DetectPlatform(urlStr)))
	result.Text = text

	if f.useCache() {
		if payload, err := json.Marshal(result); err == nil {
			if err := f.cache.Set(ctx, PageNamespace, urlStr, payload, f.cacheTTL); err != nil {
				log.WithError(err).Warn("failed to cache page")
			}
		}
	}

	return &CachedResult{Result: result}, nil
}

func (f *CachedFetcher) lookup(ctx context.Context, urlStr string) (*Result, bool) {
	payload, err := f.cache.Get(ctx, PageNamespace, urlStr)
	if err != nil {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		logging.Get().WithFields(logrus.Fields{"url": urlStr, "error": err}).Warn("discarding unreadable cached page")
		return nil, false
	}
	return &result, true
}

// FetchMultiple fetches URLs concurrently. Results and errors are returned
// in input order; a failed fetch leaves a nil result and a non-nil error at
// its index.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			results[i], errs[i] = f.Fetch(gctx, u)
			// Per-URL failures are reported through errs, not the group.
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

// Invalidate drops a cached page so the next Fetch goes to the network.
func (f *CachedFetcher) Invalidate(ctx context.Context, urlStr string) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Delete(ctx, PageNamespace, urlStr)
}

func (f *CachedFetcher) useCache() bool {
	return f.cache != nil && !f.skipCache
}
