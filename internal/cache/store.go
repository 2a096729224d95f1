package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotFileName is the name of the snapshot file inside the snapshot
// directory. Exported so the purge command can resolve the file without
// constructing a cache.
const SnapshotFileName = "assets.cache"

// File permissions for the snapshot directory and file.
const (
	snapshotDirPerm  = 0750
	snapshotFilePerm = 0600
)

// snapshotFile is the on-disk snapshot format. Entries are kept as raw JSON
// so one undecodable entry doesn't poison the rest of the file.
type snapshotFile struct {
	SavedAt time.Time                  `json:"saved_at"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// store persists the cache contents to a single snapshot file, atomically.
// If no writable directory can be found it runs memory-only: load returns
// an empty map and saves are no-ops.
type store[V any] struct {
	dir string // empty means memory-only
	log zerolog.Logger

	// Serializes save calls so the timer flush and a Set-triggered flush
	// can never interleave temp-file writes.
	mu sync.Mutex
}

// newStore resolves a writable snapshot directory: the preferred dir first,
// then a subdirectory of the system temp dir. Failure to find one is not
// fatal; it is logged once and the store degrades to memory-only.
func newStore[V any](preferred string, log zerolog.Logger) *store[V] {
	s := &store[V]{log: log}

	candidates := []string{}
	if preferred != "" {
		candidates = append(candidates, preferred, filepath.Join(os.TempDir(), "assetbridge-cache"))
	}

	for _, dir := range candidates {
		if err := os.MkdirAll(dir, snapshotDirPerm); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("snapshot directory unavailable")
			continue
		}
		s.dir = dir
		break
	}

	if s.dir == "" && preferred != "" {
		log.Warn().Msg("no writable snapshot directory, cache will not survive restarts")
	}

	return s
}

// path returns the snapshot file path, or empty in memory-only mode.
func (s *store[V]) path() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, SnapshotFileName)
}

// load reads the snapshot file and returns its unexpired entries. A missing,
// unreadable, or corrupt snapshot degrades to an empty map; it never fails
// the caller.
func (s *store[V]) load(now time.Time) map[string]entry[V] {
	entries := make(map[string]entry[V])

	path := s.path()
	if path == "" {
		return entries
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug().Str("path", path).Msg("no snapshot file, starting cold")
		} else {
			s.log.Warn().Err(err).Str("path", path).Msg("failed to read snapshot, starting cold")
		}
		return entries
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("corrupt snapshot, starting cold")
		return entries
	}

	dropped := 0
	for key, raw := range snap.Entries {
		var e entry[V]
		if err := json.Unmarshal(raw, &e); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping undecodable snapshot entry")
			dropped++
			continue
		}
		if !e.ExpiresAt.After(now) {
			dropped++
			continue
		}
		entries[key] = e
	}

	s.log.Info().
		Int("kept", len(entries)).
		Int("dropped", dropped).
		Time("saved_at", snap.SavedAt).
		Msg("loaded cache snapshot")

	return entries
}

// save atomically writes the given view to the snapshot file: serialize,
// write to a temp file in the same directory, then rename over the target.
// A crash mid-write leaves the previous snapshot intact. An entry whose
// value cannot be serialized is skipped with a warning rather than aborting
// the whole save.
func (s *store[V]) save(view map[string]entry[V], now time.Time) error {
	path := s.path()
	if path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshotFile{
		SavedAt: now,
		Entries: make(map[string]json.RawMessage, len(view)),
	}
	for key, e := range view {
		raw, err := json.Marshal(e)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping unserializable cache entry")
			continue
		}
		snap.Entries[key] = raw
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, snapshotFilePerm); err != nil {
		return err
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	return nil
}
