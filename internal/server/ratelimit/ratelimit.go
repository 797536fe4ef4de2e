// Package ratelimit throttles API clients with per-rule token buckets.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	last     time.Time
}

func newBucket(r Rule, now time.Time) *bucket {
	return &bucket{
		capacity: float64(r.capacity()),
		rate:     float64(r.Limit) / r.Window.Seconds(),
		tokens:   float64(r.capacity()),
		last:     now,
	}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.last); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed.Seconds()*b.rate)
		b.last = now
	}
}

func (b *bucket) take(now time.Time) bool {
	b.refill(now)
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// untilToken is how long until one token is available.
func (b *bucket) untilToken() time.Duration {
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// untilFull is how long until the bucket is back at capacity.
func (b *bucket) untilFull() time.Duration {
	return time.Duration((b.capacity - b.tokens) / b.rate * float64(time.Second))
}

// Decision describes the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int // zero when the request was not metered
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	Default Rule // applied to requests no rule matches
	Rules   []Rule
	Allow   map[string]bool // clients never limited
	Deny    map[string]bool // clients always refused
	IdleTTL time.Duration   // buckets idle this long are swept
}

// DefaultConfig returns an enabled limiter with perMinute requests per client by default.
func DefaultConfig(perMinute int) *Config {
	return &Config{
		Enabled: true,
		Default: Rule{Limit: perMinute, Window: time.Minute},
		Rules:   DefaultRules(),
		IdleTTL: time.Hour,
	}
}

type entry struct {
	bucket *bucket
	mu     sync.Mutex
}

// Limiter meters requests per client and rule.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*entry
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig(1000).
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig(1000)
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = time.Hour
	}
	return &Limiter{cfg: *cfg, now: time.Now, buckets: make(map[string]*entry)}
}

// Allow meters one request from clientID.
func (l *Limiter) Allow(clientID, method, path string) Decision {
	switch {
	case !l.cfg.Enabled, l.cfg.Allow[clientID]:
		return Decision{Allowed: true}
	case l.cfg.Deny[clientID]:
		return Decision{Allowed: false}
	}

	rule, ok := Match(l.cfg.Rules, method, path)
	if !ok {
		rule = l.cfg.Default
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return Decision{Allowed: true}
	}

	now := l.now()
	e := l.entry(clientID+"|"+rule.key(), rule, now)

	e.mu.Lock()
	defer e.mu.Unlock()
	allowed := e.bucket.take(now)
	d := Decision{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: int(e.bucket.tokens),
		ResetAt:   now.Add(e.bucket.untilFull()),
	}
	if !allowed {
		d.RetryAfter = e.bucket.untilToken()
	}
	return d
}

func (l *Limiter) entry(key string, rule Rule, now time.Time) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{bucket: newBucket(rule, now)}
		l.buckets[key] = e
	}
	return e
}

// Len returns the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep drops buckets that have been idle for IdleTTL and returns how many went.
func (l *Limiter) Sweep(now time.Time) int {
	cutoff := now.Add(-l.cfg.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, e := range l.buckets {
		e.mu.Lock()
		idle := e.bucket.last.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Run sweeps idle buckets every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(l.now())
		}
	}
}
