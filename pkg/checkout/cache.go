package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clubify-io/checkout-client/internal/constants"
)

// CacheEntry is a cached response payload with its expiry.
type CacheEntry struct {
	Value     []byte    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry's TTL has elapsed.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// NewCacheEntry builds an entry expiring after ttl. A zero ttl means the
// entry never expires.
func NewCacheEntry(value []byte, ttl time.Duration) *CacheEntry {
	entry := &CacheEntry{Value: value, CreatedAt: time.Now()}
	if ttl > 0 {
		entry.ExpiresAt = entry.CreatedAt.Add(ttl)
	}

	return entry
}

// Cache is the backend-agnostic contract for GET-response caching. Expiry is
// delegated to the backend; Get returns ErrCacheMiss for absent or expired
// keys.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheOptions are common knobs applied to any backend.
type CacheOptions struct {
	// DefaultTTL is applied when a caller stores an entry without one.
	DefaultTTL time.Duration
}

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{DefaultTTL: constants.DefaultCacheTTL}
}

// MemoryCache is an in-process TTL cache with a size bound. Expired entries
// are dropped lazily on read and swept by a background janitor.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	cache := &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
		stop:    make(chan struct{}),
	}

	go cache.janitor(constants.DefaultCacheCleanupInterval)

	return cache
}

// Get retrieves a live entry or ErrCacheMiss.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if entry.Expired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, ErrCacheMiss
	}

	return entry, nil
}

// Set stores an entry, evicting expired entries first and then the oldest
// entry when the cache is full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}

	c.entries[key] = entry

	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// DeletePrefix removes every entry whose key starts with prefix. List
// responses are cached under query-suffixed keys, so mutations use this to
// drop all of them at once.
func (c *MemoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired()
}

// Close stops the background janitor.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// evictLocked drops expired entries, falling back to the oldest entry when
// nothing expired. Callers hold the write lock.
func (c *MemoryCache) evictLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		evicted   bool
	)

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)

			evicted = true

			continue
		}

		if oldestKey == "" || entry.CreatedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.CreatedAt
		}
	}

	if !evicted && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if entry.Expired() {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
