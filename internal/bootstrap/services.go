package bootstrap

import (
	"fmt"

	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/scopemeta"
	"github.com/go-authgate/oauthprovider/internal/services"
	"github.com/go-authgate/oauthprovider/internal/store"
	"github.com/go-authgate/oauthprovider/internal/token"

	"go.uber.org/zap"
)

// serviceSet groups the domain services shared by the server and the CLI.
type serviceSet struct {
	audit   *services.AuditService
	clients *services.ClientService
	tokens  *services.TokenService
	consent *services.ConsentService
}

func initializeServices(
	cfg *config.Config,
	db *store.Store,
	metadata core.ScopeMetadataSource,
	recorder core.Recorder,
	logger *zap.Logger,
) (*serviceSet, error) {
	signer, err := token.NewJWTSigner(cfg.SigningSecret(), cfg.Issuer())
	if err != nil {
		return nil, fmt.Errorf("failed to create token signer: %w", err)
	}

	dict, err := scopemeta.LoadBundledDictionary()
	if err != nil {
		return nil, fmt.Errorf("failed to load scope dictionary: %w", err)
	}

	audit := services.NewAuditService(db, logger.Named("audit"), cfg.EnableAuditLogging)
	return &serviceSet{
		audit: audit,
		clients: services.NewClientService(db, services.ClientServiceOptions{
			SupportedScopes: cfg.ScopesSupported,
			DefaultScopes:   cfg.DefaultClientScopes,
		}, audit, recorder, logger.Named("clients")),
		tokens: services.NewTokenService(db, signer, services.TokenServiceOptions{
			AccessTTL:  cfg.AccessTokenExpiration,
			RefreshTTL: cfg.RefreshTokenExpiration,
		}, audit, recorder, logger.Named("tokens")),
		consent: services.NewConsentService(db, metadata, dict, audit, recorder, logger.Named("consent")),
	}, nil
}
