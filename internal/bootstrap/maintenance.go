package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/metrics"
	"github.com/go-authgate/oauthprovider/internal/services"
	"github.com/go-authgate/oauthprovider/internal/store"

	"go.uber.org/zap"
)

// Maintenance is the subset of the application used by one-shot CLI jobs
// such as reaping expired tokens and pruning audit logs.
type Maintenance struct {
	DB     *store.Store
	Tokens *services.TokenService
	Audit  *services.AuditService
}

// OpenMaintenance opens the store, requires the split schema and builds the
// services without any HTTP or cache infrastructure.
func OpenMaintenance(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Maintenance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := ensureSplitSchema(ctx, cfg, db, logger.Named("migration")); err != nil {
		_ = db.Close()
		return nil, err
	}

	svc, err := initializeServices(cfg, db, nil, metrics.NewNoopMetrics(), logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return &Maintenance{DB: db, Tokens: svc.tokens, Audit: svc.audit}, nil
}

// Close releases the database.
func (m *Maintenance) Close() error {
	return m.DB.Close()
}
