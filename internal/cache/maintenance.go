package cache

import "time"

// sweepLoop proactively removes expired entries on a fixed interval so cold,
// expired entries don't linger in memory between accesses. Lazy expiry on
// Get handles the hot path; this bounds the rest.
func (c *Cache[V]) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := c.sweepExpired()
			if removed > 0 {
				c.log.Info().Int("removed", removed).Msg("swept expired cache entries")
			} else {
				c.log.Debug().Msg("sweep found no expired entries")
			}
		case <-c.done:
			return
		}
	}
}

// flushLoop writes the snapshot on a fixed interval and whenever a Set nudges
// it, bounding the cached state lost on an unclean shutdown. A failed save is
// logged and the loop continues to the next interval.
func (c *Cache[V]) flushLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Flush()
		case <-c.flushCh:
			c.Flush()
		case <-c.done:
			return
		}
	}
}

// Flush synchronously writes a snapshot: copy the table under the lock, then
// hand the copy to the store. Callers that exit soon after a Set (the CLI)
// use it to make sure the update reached disk. The disk write happens after
// the lock is released so foreground Get/Set calls never block on it.
func (c *Cache[V]) Flush() {
	view := c.snapshotView()
	if err := c.store.save(view, c.now()); err != nil {
		c.log.Warn().Err(err).Msg("failed to save cache snapshot")
		return
	}
	c.log.Debug().Int("entries", len(view)).Msg("cache snapshot saved")
}

// nudgeFlush signals the flush loop without blocking. The size-1 buffer
// coalesces bursts of writes into a single flush.
func (c *Cache[V]) nudgeFlush() {
	select {
	case c.flushCh <- struct{}{}:
	default:
	}
}
