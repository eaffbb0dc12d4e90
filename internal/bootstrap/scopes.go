package bootstrap

import (
	"fmt"

	"github.com/go-authgate/oauthprovider/internal/client"
	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/scopemeta"

	"go.uber.org/zap"
)

// initializeScopeMetadata builds the curated tier of scope resolution: the
// local YAML file first, then the remote service behind the cache. It
// returns nil when neither is configured.
func initializeScopeMetadata(
	cfg *config.Config,
	scopeCache core.Cache[core.ScopeMetadata],
	logger *zap.Logger,
) (core.ScopeMetadataSource, error) {
	var sources []core.ScopeMetadataSource

	if cfg.ScopeMetadataFile != "" {
		file, err := scopemeta.LoadFile(cfg.ScopeMetadataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scope metadata file: %w", err)
		}
		sources = append(sources, file)
		logger.Info("scope metadata file loaded", zap.String("path", cfg.ScopeMetadataFile))
	}

	if cfg.ScopeMetadataURL != "" {
		httpClient, err := client.NewRetryClient(client.RetryOptions{
			AuthMode:   cfg.ScopeMetadataAuthMode,
			AuthSecret: cfg.ScopeMetadataAuthSecret,
			Timeout:    cfg.ScopeMetadataTimeout,
			MaxRetries: cfg.ScopeMetadataMaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create scope metadata client: %w", err)
		}
		remote := scopemeta.NewHTTPSource(httpClient, cfg.ScopeMetadataURL)
		sources = append(sources, scopemeta.NewCachedSource(remote, scopeCache, cfg.ScopeCacheTTL, logger))
		logger.Info("scope metadata service configured",
			zap.String("url", cfg.ScopeMetadataURL),
			zap.String("auth_mode", cfg.ScopeMetadataAuthMode),
		)
	}

	switch len(sources) {
	case 0:
		return nil, nil //nolint:nilnil // curated tier is optional
	case 1:
		return sources[0], nil
	default:
		return scopemeta.NewChain(sources...), nil
	}
}
