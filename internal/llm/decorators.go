package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/career-assistant/internal/cache"
)

type timeoutClient struct {
	next    Client
	timeout time.Duration
}

// WithTimeout bounds every Generate call. A non-positive d uses DefaultTimeout.
// A deadline hit is reported as a *GenerationError wrapping context.DeadlineExceeded.
func WithTimeout(next Client, d time.Duration) Client {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &timeoutClient{next: next, timeout: d}
}

func (c *timeoutClient) Generate(ctx context.Context, system, user string, tier ModelTier) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.next.Generate(ctx, system, user, tier)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", WrapGenerationError("generate", "timed out after "+c.timeout.String(), context.DeadlineExceeded)
		}
		return "", WrapGenerationError("generate", "upstream call failed", err)
	}
	return text, nil
}

func (c *timeoutClient) Close() error { return c.next.Close() }

type cachedClient struct {
	next  Client
	cache cache.Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

// Cached memoizes successful replies in c for ttl, keyed by tier and both prompts.
// Cache failures are logged and never fail the call.
func Cached(next Client, c cache.Cache, ttl time.Duration, log logrus.FieldLogger) Client {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &cachedClient{next: next, cache: c, ttl: ttl, log: log}
}

// CacheKey returns the cache key for one request.
func CacheKey(system, user string, tier ModelTier) string {
	h := sha256.New()
	h.Write([]byte(tier))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return "llm:" + hex.EncodeToString(h.Sum(nil))
}

func (c *cachedClient) Generate(ctx context.Context, system, user string, tier ModelTier) (string, error) {
	key := CacheKey(system, user, tier)

	var cached string
	hit, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.log.WithError(err).Warn("generation cache read failed")
	} else if hit {
		c.log.WithField("key", key).Debug("generation cache hit")
		return cached, nil
	}

	text, err := c.next.Generate(ctx, system, user, tier)
	if err != nil {
		return "", err
	}

	if err := c.cache.SetJSON(ctx, key, text, c.ttl); err != nil {
		c.log.WithError(err).Warn("generation cache write failed")
	}
	return text, nil
}

func (c *cachedClient) Close() error { return c.next.Close() }
