// Package cache provides a persistent, bounded, TTL-expiring lookup cache.
//
// The cache keeps previously fetched records in memory, evicts the
// soonest-to-expire entry when full, and periodically snapshots its contents
// to disk so a restart starts warm instead of cold. All operations are safe
// for concurrent use.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when an Options field is zero.
const (
	DefaultMaxEntries    = 1500
	DefaultTTL           = 72 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
	DefaultFlushInterval = 10 * time.Minute
)

// Options controls cache capacity, expiry, and persistence behavior.
type Options struct {
	// MaxEntries bounds the number of entries held in memory.
	MaxEntries int
	// TTL is the fixed time-to-live applied uniformly to every entry.
	TTL time.Duration
	// Dir is the preferred snapshot directory. If it cannot be created the
	// store falls back to the system temp directory, and failing that runs
	// memory-only. Empty disables persistence entirely.
	Dir string
	// SweepInterval is how often expired entries are proactively removed.
	SweepInterval time.Duration
	// FlushInterval is how often the snapshot is written to disk. A flush is
	// also nudged after every Set.
	FlushInterval time.Duration
}

func (o *Options) applyDefaults() {
	if o.MaxEntries <= 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = DefaultFlushInterval
	}
}

// entry holds a cached value with its expiration time.
type entry[V any] struct {
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Cache is a concurrency-safe bounded TTL cache with disk snapshots.
//
// A single mutex guards the entry map; every public operation is atomic with
// respect to the others. Disk I/O never happens while the mutex is held: the
// flush loop copies the map under the lock and serializes outside it.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]

	maxEntries int
	ttl        time.Duration
	now        func() time.Time // overridable for tests

	store *store[V]
	log   zerolog.Logger

	// flushCh coalesces Set-triggered flushes; the flush loop drains it.
	flushCh   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a cache, warm-starts it from the snapshot on disk (dropping
// entries that expired while the process was down), and starts the background
// sweep and flush loops. The loops are detached and never block process exit.
//
// New never fails: a missing, corrupt, or unwritable snapshot degrades to an
// empty or memory-only cache.
func New[V any](opts Options, logger zerolog.Logger) *Cache[V] {
	opts.applyDefaults()

	log := logger.With().Str("component", "cache").Logger()

	c := &Cache[V]{
		entries:    make(map[string]entry[V]),
		maxEntries: opts.MaxEntries,
		ttl:        opts.TTL,
		now:        time.Now,
		store:      newStore[V](opts.Dir, log),
		log:        log,
		flushCh:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}

	// Warm start. The store already drops expired entries on load; filtering
	// again here keeps the invariant local to the table.
	now := c.now()
	for key, e := range c.store.load(now) {
		if e.ExpiresAt.After(now) {
			c.entries[key] = e
		}
	}

	go c.sweepLoop(opts.SweepInterval)
	go c.flushLoop(opts.FlushInterval)

	return c
}

// Get retrieves a value by key. An entry whose TTL has elapsed is removed on
// access and reported as a miss; absence is a normal result, never an error.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.log.Debug().Str("key", key).Msg("cache miss")
		var zero V
		return zero, false
	}

	if !e.ExpiresAt.After(c.now()) {
		delete(c.entries, key)
		c.log.Debug().Str("key", key).Time("expired_at", e.ExpiresAt).Msg("cache entry expired on access")
		var zero V
		return zero, false
	}

	c.log.Debug().Str("key", key).Msg("cache hit")
	return e.Value, true
}

// Set inserts or overwrites the entry for key with a refreshed expiration.
// Inserting a new key at capacity first evicts the entry with the earliest
// expiration (insertion order, under a uniform TTL). Set also nudges the
// flush loop so the update reaches disk promptly.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	c.entries[key] = entry[V]{
		Value:     value,
		ExpiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()

	c.nudgeFlush()
}

// Clear removes all entries unconditionally.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()

	c.log.Debug().Msg("cache cleared")
	c.nudgeFlush()
}

// Len returns the number of entries currently stored, including ones that
// have expired but not yet been swept.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background loops. The process never needs to call it (the
// loops are abandoned at exit); it exists so tests don't leak goroutines.
func (c *Cache[V]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// evictOldestLocked removes the single entry with the minimum expiration
// time. A linear scan is fine at this scale (hundreds to low thousands).
// Caller must hold c.mu.
func (c *Cache[V]) evictOldestLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for key, e := range c.entries {
		if !found || e.ExpiresAt.Before(oldest) {
			victim = key
			oldest = e.ExpiresAt
			found = true
		}
	}
	if found {
		delete(c.entries, victim)
		c.log.Debug().Str("key", victim).Time("expires_at", oldest).Msg("evicted soonest-expiring entry")
	}
}

// sweepExpired removes every currently expired entry and returns the count.
func (c *Cache[V]) sweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !e.ExpiresAt.After(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// snapshotView returns a point-in-time copy of the entry map, taken under the
// lock so the store never observes a map mid-mutation.
func (c *Cache[V]) snapshotView() map[string]entry[V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := make(map[string]entry[V], len(c.entries))
	for key, e := range c.entries {
		view[key] = e
	}
	return view
}
