package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/migration"
	"github.com/go-authgate/oauthprovider/internal/store"

	"go.uber.org/zap"
)

// OpenStore opens the database and waits up to DBInitTimeout for it to answer.
func OpenStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN, store.Options{
		BootstrapIdentity: cfg.DatabaseBootstrapIdentity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()
	if err := db.Health(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}
	return db, nil
}

// ensureSplitSchema refuses to serve on anything but the split schema. With
// DATABASE_AUTO_MIGRATE the forward migration runs first.
func ensureSplitSchema(ctx context.Context, cfg *config.Config, db *store.Store, logger *zap.Logger) error {
	migrator := migration.New(db.DB(), logger)

	state, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if state == migration.StateSplit {
		return nil
	}

	if !cfg.DatabaseAutoMigrate {
		return fmt.Errorf(
			"database schema is %s; run \"oauthprovider migrate up\" or set DATABASE_AUTO_MIGRATE=true",
			state,
		)
	}

	logger.Info("running forward migration before start", zap.String("state", string(state)))
	if err := migrator.Up(ctx); err != nil {
		return err
	}

	state, err = migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if state != migration.StateSplit {
		return fmt.Errorf("database schema is %s after forward migration; manual repair required", state)
	}
	return nil
}
