package resolver

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	mimeType string
	expires  time.Time
}

// CachingProber wraps another TypeProber with a TTL-based in-memory cache, so
// repeated opens of the same locator skip the network round trip.
type CachingProber struct {
	base TypeProber
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachingProber returns a TypeProber that caches probes for the provided TTL.
func NewCachingProber(base TypeProber, ttl time.Duration) *CachingProber {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProber{
		base:  base,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

// Probe returns a cached mime type when available, otherwise it delegates to
// the underlying prober and stores the result. Failures are not cached.
func (c *CachingProber) Probe(ctx context.Context, locator string) (string, error) {
	if c == nil || c.base == nil {
		return "", ErrProberUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[locator]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.mimeType, nil
	}

	mimeType, err := c.base.Probe(ctx, locator)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.items[locator] = cacheEntry{mimeType: mimeType, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return mimeType, nil
}
