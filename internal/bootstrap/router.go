package bootstrap

import (
	"net/http"

	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/handlers"
	"github.com/go-authgate/oauthprovider/internal/metrics"
	"github.com/go-authgate/oauthprovider/internal/middleware"
	"github.com/go-authgate/oauthprovider/internal/store"
	"github.com/go-authgate/oauthprovider/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// routerDeps is everything setupRouter mounts.
type routerDeps struct {
	cfg         *config.Config
	db          *store.Store
	services    *serviceSet
	caches      *caches
	recorder    metrics.Recorder
	redisClient *redis.Client
	logger      *zap.Logger
}

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(d routerDeps) (*gin.Engine, error) {
	if d.cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.logger.Named("http")))
	r.Use(metrics.HTTPMetricsMiddleware(d.recorder))
	r.Use(util.IPMiddleware())

	sessionStore := cookie.NewStore([]byte(d.cfg.CookieSecret()))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   !d.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(d.cfg.SessionName, sessionStore))
	r.Use(middleware.CookieSession(middleware.NewStoreSessionLookup(d.db), d.logger))

	checks := map[string]handlers.HealthChecker{"database": d.db}
	if d.caches != nil {
		checks["scope_cache"] = d.caches.scopes
	}
	r.GET("/healthz", handlers.Healthz(checks))

	if err := setupMetricsEndpoint(r, d); err != nil {
		return nil, err
	}

	registrationLimit := func(c *gin.Context) { c.Next() }
	if d.cfg.EnableRateLimit {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: d.cfg.ClientRegistrationRateLimit,
			CleanupInterval:   d.cfg.RateLimitCleanupInterval,
			Prefix:            "oauthprovider:ratelimit:register:",
			RedisClient:       d.redisClient,
		})
		if err != nil {
			return nil, err
		}
		registrationLimit = limiter
	}

	clientHandler := handlers.NewClientHandler(d.services.clients, d.logger)
	consentHandler := handlers.NewConsentHandler(d.services.consent, d.logger)
	oauthHandler := handlers.NewOAuthHandler(d.services.clients, d.services.tokens, d.logger)
	auditHandler := handlers.NewAuditHandler(d.services.audit, d.logger)

	r.GET("/.well-known/openid-configuration", handlers.NewDiscoveryHandler(d.cfg).Discovery)
	r.POST("/oauth/introspect", oauthHandler.Introspect)
	r.POST("/oauth/revoke", oauthHandler.Revoke)

	r.GET("/api/oauth2/public-client", clientHandler.PublicClient)
	r.GET("/api/consent", consentHandler.ConsentPage)

	users := r.Group("/api", middleware.RequireSession())
	users.POST("/consent", consentHandler.GrantConsent)
	users.DELETE("/consent", consentHandler.RevokeConsent)
	users.GET("/consents", consentHandler.ListConsents)

	admins := r.Group("/api/admin", middleware.RequireAdmin())
	admins.GET("/oauth-clients", clientHandler.ListClients)
	admins.POST("/oauth-clients", registrationLimit, clientHandler.CreateClient)
	admins.GET("/oauth-clients/:client_id", clientHandler.GetClient)
	admins.PATCH("/oauth-clients/:client_id", clientHandler.UpdateClient)
	admins.DELETE("/oauth-clients/:client_id", clientHandler.DeleteClient)
	admins.POST("/oauth-clients/:client_id/secret", clientHandler.RotateSecret)
	admins.GET("/audit-logs", auditHandler.ListAuditLogs)

	return r, nil
}

// setupMetricsEndpoint mounts /metrics and the scrape-time token gauges.
func setupMetricsEndpoint(r *gin.Engine, d routerDeps) error {
	if !d.cfg.MetricsEnabled {
		return nil
	}

	if d.caches != nil {
		collector := metrics.NewActiveTokensCollector(d.db, d.caches.metrics, d.cfg.MetricsGaugeCacheTTL, d.recorder)
		if err := metrics.RegisterActiveTokens(collector); err != nil {
			return err
		}
	}

	if d.cfg.MetricsToken == "" {
		d.logger.Warn("/metrics is exposed without authentication; set METRICS_TOKEN")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
		return nil
	}
	r.GET("/metrics", middleware.MetricsAuth(d.cfg.MetricsToken), gin.WrapH(promhttp.Handler()))
	return nil
}
