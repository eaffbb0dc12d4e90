package scopemeta

import (
	"context"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "scope:"

// CachedSource puts a cache in front of a slower source. Only found entries
// are cached; unknown scopes are asked for again next time.
type CachedSource struct {
	next   core.ScopeMetadataSource
	cache  core.Cache[core.ScopeMetadata]
	ttl    time.Duration
	logger *zap.Logger
}

var _ core.ScopeMetadataSource = (*CachedSource)(nil)

func NewCachedSource(
	next core.ScopeMetadataSource,
	cache core.Cache[core.ScopeMetadata],
	ttl time.Duration,
	logger *zap.Logger,
) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Lookup serves hits from the cache and asks next only for the misses. A
// failing cache degrades to a pass-through.
func (s *CachedSource) Lookup(ctx context.Context, scopes []string) (map[string]core.ScopeMetadata, error) {
	keys := make([]string, len(scopes))
	for i, scope := range scopes {
		keys[i] = cacheKeyPrefix + scope
	}

	hits, err := s.cache.MGet(ctx, keys)
	if err != nil {
		s.logger.Warn("scope cache read failed", zap.Error(err))
		hits = nil
	}

	out := make(map[string]core.ScopeMetadata, len(scopes))
	var missing []string
	for i, scope := range scopes {
		if v, ok := hits[keys[i]]; ok {
			out[scope] = v
			continue
		}
		missing = append(missing, scope)
	}
	if len(missing) == 0 {
		return out, nil
	}

	// next may return partial results alongside an error.
	found, lookupErr := s.next.Lookup(ctx, missing)

	fresh := make(map[string]core.ScopeMetadata, len(found))
	for scope, v := range found {
		out[scope] = v
		fresh[cacheKeyPrefix+scope] = v
	}
	if len(fresh) > 0 {
		if err := s.cache.MSet(ctx, fresh, s.ttl); err != nil {
			s.logger.Warn("scope cache write failed", zap.Error(err))
		}
	}
	return out, lookupErr
}

func (s *CachedSource) Name() string {
	return s.next.Name()
}
