package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/career-assistant/internal/cache"
)

// DefaultCacheTTL is how long fetched pages are reused.
const DefaultCacheTTL = 24 * time.Hour

// Cached wraps a Getter with a cache keyed by URL. Only successful fetches are stored;
// cache failures are logged and never fail the fetch.
type Cached struct {
	next  Getter
	cache cache.Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewCached returns a caching Getter. A non-positive ttl uses DefaultCacheTTL.
func NewCached(next Getter, c cache.Cache, ttl time.Duration, log logrus.FieldLogger) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{next: next, cache: c, ttl: ttl, log: log}
}

func cacheKey(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return "fetch:" + hex.EncodeToString(sum[:])
}

// Get returns the cached result for urlStr or fetches and stores it.
func (c *Cached) Get(ctx context.Context, urlStr string) (*Result, error) {
	key := cacheKey(urlStr)

	var hit Result
	found, err := c.cache.GetJSON(ctx, key, &hit)
	if err != nil {
		c.log.WithError(err).Warn("page cache read failed")
	} else if found {
		c.log.WithField("url", urlStr).Debug("page cache hit")
		return &hit, nil
	}

	res, err := c.next.Get(ctx, urlStr)
	if err != nil {
		return res, err
	}
	if err := c.cache.SetJSON(ctx, key, res, c.ttl); err != nil {
		c.log.WithError(err).Warn("page cache write failed")
	}
	return res, nil
}

// Invalidate drops urlStr from the cache.
func (c *Cached) Invalidate(ctx context.Context, urlStr string) error {
	return c.cache.Del(ctx, cacheKey(urlStr))
}
