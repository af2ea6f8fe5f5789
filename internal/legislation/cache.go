package legislation

import (
	"context"
	"sync"
	"time"
)

const activeKey = 0

type cacheEntry struct {
	snapshot  Snapshot
	expiresAt time.Time
}

// CachedProvider keeps recently resolved snapshots in memory for ttl.
// Cached snapshots are shared read-only values.
type CachedProvider struct {
	source Provider
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[int]cacheEntry
}

// NewCachedProvider wraps source with a TTL cache.
func NewCachedProvider(source Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int]cacheEntry),
	}
}

func (c *CachedProvider) Active(ctx context.Context) (Snapshot, error) {
	if s, ok := c.get(activeKey); ok {
		return s, nil
	}
	s, err := c.source.Active(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	c.set(activeKey, s)
	return s, nil
}

func (c *CachedProvider) ForYear(ctx context.Context, year int) (Snapshot, error) {
	if s, ok := c.get(year); ok {
		return s, nil
	}
	s, err := c.source.ForYear(ctx, year)
	if err != nil {
		return Snapshot{}, err
	}
	c.set(year, s)
	return s, nil
}

// Refresh drops cached entries and reloads the active snapshot from the source.
// On failure the previous entries are kept.
func (c *CachedProvider) Refresh(ctx context.Context) error {
	s, err := c.source.Active(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[int]cacheEntry{
		activeKey: {snapshot: s, expiresAt: c.now().Add(c.ttl)},
	}
	return nil
}

func (c *CachedProvider) get(key int) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return Snapshot{}, false
	}
	return entry.snapshot, true
}

func (c *CachedProvider) set(key int, s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		snapshot:  s,
		expiresAt: c.now().Add(c.ttl),
	}
}
