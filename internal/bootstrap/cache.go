package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/oauthprovider/internal/cache"
	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/core"

	"go.uber.org/zap"
)

const (
	scopeCachePrefix   = "oauthprovider:scopes:"
	metricsCachePrefix = "oauthprovider:metrics:"
)

// caches are the read-through caches used by the scope metadata chain and
// the active-token gauges. With SCOPE_CACHE_TYPE=redis both share one
// rueidis connection.
type caches struct {
	scopes  core.Cache[core.ScopeMetadata]
	metrics core.Cache[int64]
	close   func() error
}

func initializeCaches(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*caches, error) {
	if cfg.ScopeCacheType != config.ScopeCacheTypeRedis {
		scopes := cache.NewMemoryCache[core.ScopeMetadata]()
		counts := cache.NewMemoryCache[int64]()
		logger.Info("cache: memory (single instance only)")
		return &caches{
			scopes:  scopes,
			metrics: counts,
			close: func() error {
				_ = scopes.Close()
				return counts.Close()
			},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	client, err := cache.NewRueidisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
	}
	logger.Info("cache: redis", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))

	return &caches{
		scopes:  cache.WithRueidisClient[core.ScopeMetadata](client, scopeCachePrefix),
		metrics: cache.WithRueidisClient[int64](client, metricsCachePrefix),
		close: func() error {
			client.Close()
			return nil
		},
	}, nil
}
