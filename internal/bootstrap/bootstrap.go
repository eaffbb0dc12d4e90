package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/metrics"
	"github.com/go-authgate/oauthprovider/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Logger *zap.Logger

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      metrics.Recorder
	RateLimitRedisClient *redis.Client
	caches               *caches

	services *serviceSet

	// HTTP
	Router *gin.Engine
	Server *http.Server
}

// Run initializes the application and serves until SIGINT or SIGTERM.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	app := &Application{Config: cfg, Logger: logger}

	// Phase 1: Validate configuration
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Phase 2: Database and schema
	if err := app.initializeDatabase(ctx); err != nil {
		return err
	}

	// Phase 3: Caches, metrics, Redis
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.closeAll()
		return err
	}

	// Phase 4: Services
	if err := app.initializeBusinessLayer(); err != nil {
		app.closeAll()
		return err
	}

	// Phase 5: HTTP
	if err := app.initializeHTTPLayer(); err != nil {
		app.closeAll()
		return err
	}

	// Phase 6: Serve with graceful shutdown
	app.startWithGracefulShutdown()
	return nil
}

func (app *Application) initializeDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.Config)
	if err != nil {
		return err
	}
	if err := ensureSplitSchema(ctx, app.Config, db, app.Logger.Named("migration")); err != nil {
		_ = db.Close()
		return err
	}
	app.DB = db
	return nil
}

func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.MetricsRecorder = metrics.Init(app.Config.MetricsEnabled)

	app.caches, err = initializeCaches(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config, app.Logger)
	return err
}

func (app *Application) initializeBusinessLayer() error {
	metadata, err := initializeScopeMetadata(app.Config, app.caches.scopes, app.Logger.Named("scopemeta"))
	if err != nil {
		return err
	}

	app.services, err = initializeServices(app.Config, app.DB, metadata, app.MetricsRecorder, app.Logger)
	return err
}

func (app *Application) initializeHTTPLayer() error {
	router, err := setupRouter(routerDeps{
		cfg:         app.Config,
		db:          app.DB,
		services:    app.services,
		caches:      app.caches,
		recorder:    app.MetricsRecorder,
		redisClient: app.RateLimitRedisClient,
		logger:      app.Logger,
	})
	if err != nil {
		return err
	}
	app.Router = router
	app.Server = createHTTPServer(app.Config, router)
	return nil
}

func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server, app.Logger)
	addServerShutdownJob(m, app.Server, app.Config.ServerShutdownTimeout, app.Logger)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient, app.Logger)
	addCacheShutdownJob(m, app.caches, app.Logger)

	<-m.Done()

	// Close the database only after every request has drained.
	if err := app.DB.Close(); err != nil {
		app.Logger.Error("error closing database", zap.Error(err))
	}
}

// closeAll releases whatever was opened before a startup failure.
func (app *Application) closeAll() {
	if app.RateLimitRedisClient != nil {
		_ = app.RateLimitRedisClient.Close()
	}
	if app.caches != nil && app.caches.close != nil {
		_ = app.caches.close()
	}
	if app.DB != nil {
		_ = app.DB.Close()
	}
}
