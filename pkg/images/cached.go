package images

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lov3b/irc-render/pkg/cache"
	"github.com/lov3b/irc-render/pkg/observability"
)

const cacheKeyType = "image"

// CachedFetcher remembers successful downloads in a cache.Cache. Failures
// are never cached. Cache errors are logged and treated as misses.
type CachedFetcher struct {
	inner  Fetcher
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedFetcher wraps inner. A nil keyer hashes the URL alone.
func NewCachedFetcher(inner Fetcher, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *CachedFetcher {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer(0)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CachedFetcher{inner: inner, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Fetch implements Fetcher. A cached payload larger than lim.MaxBytes is
// ignored and fetched again.
func (f *CachedFetcher) Fetch(ctx context.Context, url string, lim Limits) ([]byte, error) {
	key := f.keyer.ImageKey(url)
	hooks := observability.Cache()

	data, hit, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn("image cache read failed", "url", url, "err", err)
	}
	if hit && (lim.MaxBytes <= 0 || int64(len(data)) <= lim.MaxBytes) {
		hooks.OnCacheHit(ctx, cacheKeyType)
		f.logger.Debug("image cache hit", "url", url, "bytes", len(data))
		return data, nil
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	data, err = f.inner.Fetch(ctx, url, lim)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.logger.Warn("image cache write failed", "url", url, "err", err)
	} else {
		hooks.OnCacheSet(ctx, cacheKeyType, len(data))
	}
	return data, nil
}

var _ Fetcher = (*CachedFetcher)(nil)
