package cache

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetNudgesFlushToDisk(t *testing.T) {
	dir := t.TempDir()

	c := New[string](Options{
		MaxEntries:    10,
		TTL:           time.Hour,
		Dir:           dir,
		SweepInterval: time.Hour,
		// Long enough that only the Set nudge can trigger the write
		FlushInterval: time.Hour,
	}, zerolog.Nop())
	defer c.Close()

	c.Set("k", "v")

	require.Eventually(t, func() bool {
		_, err := os.Stat(c.store.path())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "Set should trigger a snapshot write")

	loaded := c.store.load(time.Now())
	assert.Equal(t, "v", loaded["k"].Value)
}

func TestCache_SweepLoopRemovesExpired(t *testing.T) {
	c := New[string](Options{
		MaxEntries:    10,
		TTL:           20 * time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
		FlushInterval: time.Hour,
	}, zerolog.Nop())
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")

	// The sweep loop alone must shrink the table, without any Get
	require.Eventually(t, func() bool {
		return c.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCache_NudgeFlushNeverBlocks(t *testing.T) {
	c, _ := newTestCache(t, 10, time.Hour)

	// Repeated nudges beyond the buffer size must coalesce, not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			c.nudgeFlush()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nudgeFlush blocked")
	}
}
