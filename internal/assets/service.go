package assets

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/bvale/assetbridge/internal/cache"
	"github.com/bvale/assetbridge/internal/logging"
)

// Lookup sources recorded in the audit log.
const (
	SourceCache  = "cache"
	SourceRemote = "remote"
)

// Fetcher retrieves an asset record from the remote tracking API.
// (nil, nil) means the tag is unknown remotely.
type Fetcher interface {
	Fetch(ctx context.Context, tag string) (*Asset, error)
}

// AuditLog records where each lookup was answered from.
type AuditLog interface {
	RecordLookup(ctx context.Context, tag, source string, found bool) error
}

// Service answers asset lookups cache-first, falling back to the remote API.
// The cache has no knowledge of the fetcher; this service owns the
// check-cache, fetch-on-miss, set-on-success pattern.
type Service struct {
	cache   *cache.Cache[Asset]
	fetcher Fetcher
	audit   AuditLog // optional
	group   singleflight.Group
}

// NewService creates a lookup service. audit may be nil.
func NewService(c *cache.Cache[Asset], fetcher Fetcher, audit AuditLog) *Service {
	return &Service{
		cache:   c,
		fetcher: fetcher,
		audit:   audit,
	}
}

// Lookup returns the asset record for a tag along with the source that
// answered it (SourceCache or SourceRemote). Concurrent lookups of the same
// uncached tag are collapsed into a single remote fetch. Returns a nil asset
// when the tag is unknown everywhere.
func (s *Service) Lookup(ctx context.Context, tag string) (*Asset, string, error) {
	if tag == "" {
		return nil, SourceCache, nil
	}

	if asset, ok := s.cache.Get(tag); ok {
		s.recordLookup(ctx, tag, SourceCache, true)
		return &asset, SourceCache, nil
	}

	v, err, _ := s.group.Do(tag, func() (any, error) {
		// Another caller may have filled the cache while we waited.
		if asset, ok := s.cache.Get(tag); ok {
			return &asset, nil
		}

		asset, err := s.fetcher.Fetch(ctx, tag)
		if err != nil {
			return nil, err
		}
		if asset != nil {
			s.cache.Set(tag, *asset)
		}
		return asset, nil
	})
	if err != nil {
		s.recordLookup(ctx, tag, SourceRemote, false)
		return nil, SourceRemote, err
	}

	asset, _ := v.(*Asset)
	s.recordLookup(ctx, tag, SourceRemote, asset != nil)
	return asset, SourceRemote, nil
}

// Cached returns the asset only if already cached (no remote fetch).
func (s *Service) Cached(tag string) (*Asset, bool) {
	asset, ok := s.cache.Get(tag)
	if !ok {
		return nil, false
	}
	return &asset, true
}

// Store places an asset record directly into the cache. Used by the CSV
// importer to pre-warm lookups.
func (s *Service) Store(asset Asset) {
	if asset.Tag == "" {
		return
	}
	s.cache.Set(asset.Tag, asset)
}

// Flush forces the cache snapshot to disk. Called before CLI exit.
func (s *Service) Flush() {
	s.cache.Flush()
}

func (s *Service) recordLookup(ctx context.Context, tag, source string, found bool) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordLookup(ctx, tag, source, found); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("tag", tag).Msg("failed to record lookup in audit log")
	}
}
