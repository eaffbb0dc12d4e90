package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Database driver names
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

// Rate limit store types
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Scope metadata cache types
const (
	ScopeCacheTypeMemory = "memory"
	ScopeCacheTypeRedis  = "redis"
)

// Outbound authentication modes for the scope metadata service
const (
	AuthModeNone   = "none"
	AuthModeSimple = "simple"
	AuthModeHMAC   = "hmac"
)

// developmentSecret is only accepted outside production.
const developmentSecret = "development-secret-change-in-production"

type Config struct {
	Environment string

	// Server settings
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseDriver            string // "sqlite" or "postgres"
	DatabaseDSN               string // Database connection string (DSN or path)
	DatabaseAutoMigrate       bool   // Run the forward migration before serving
	DatabaseBootstrapIdentity bool   // Create empty user/session tables when missing

	// Tokens
	JWTSecret              string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration

	// Session settings
	SessionSecret string
	SessionName   string

	// Scopes
	ScopesSupported     []string
	DefaultClientScopes []string

	// Scope metadata sources
	ScopeMetadataFile       string
	ScopeMetadataURL        string
	ScopeMetadataTimeout    time.Duration
	ScopeMetadataMaxRetries int
	ScopeMetadataAuthMode   string // "none", "simple" or "hmac"
	ScopeMetadataAuthSecret string
	ScopeCacheType          string // "memory" or "redis"
	ScopeCacheTTL           time.Duration

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	EnableRateLimit             bool
	RateLimitStore              string // "memory" or "redis"
	ClientRegistrationRateLimit int    // requests per minute
	RateLimitCleanupInterval    time.Duration

	// Metrics
	MetricsEnabled       bool
	MetricsToken         string // Bearer token for /metrics, empty leaves it open
	MetricsGaugeCacheTTL time.Duration

	// Audit
	EnableAuditLogging bool
	AuditLogRetention  time.Duration

	// Timeouts
	DBInitTimeout         time.Duration
	RedisConnTimeout      time.Duration
	CacheInitTimeout      time.Duration
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", "oauth.db")
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", EnvironmentProduction),
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		BaseURL:     strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		DatabaseDriver:            driver,
		DatabaseDSN:               dsn,
		DatabaseAutoMigrate:       getEnvBool("DATABASE_AUTO_MIGRATE", false),
		DatabaseBootstrapIdentity: getEnvBool("DATABASE_BOOTSTRAP_IDENTITY", false),

		JWTSecret:              getEnv("JWT_SECRET", ""),
		AccessTokenExpiration:  getEnvDuration("ACCESS_TOKEN_EXPIRATION", time.Hour),
		RefreshTokenExpiration: getEnvDuration("REFRESH_TOKEN_EXPIRATION", 720*time.Hour), // 30 days

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionName:   getEnv("SESSION_NAME", "oauth_session"),

		ScopesSupported: getEnvSlice("SCOPES_SUPPORTED", []string{
			"openid", "profile", "email", "offline_access",
		}),
		DefaultClientScopes: getEnvSlice("DEFAULT_CLIENT_SCOPES", []string{"openid", "profile", "email"}),

		ScopeMetadataFile:       getEnv("SCOPE_METADATA_FILE", ""),
		ScopeMetadataURL:        getEnv("SCOPE_METADATA_URL", ""),
		ScopeMetadataTimeout:    getEnvDuration("SCOPE_METADATA_TIMEOUT", 5*time.Second),
		ScopeMetadataMaxRetries: getEnvInt("SCOPE_METADATA_MAX_RETRIES", 2),
		ScopeMetadataAuthMode:   getEnv("SCOPE_METADATA_AUTH_MODE", AuthModeNone),
		ScopeMetadataAuthSecret: getEnv("SCOPE_METADATA_AUTH_SECRET", ""),
		ScopeCacheType:          getEnv("SCOPE_CACHE_TYPE", ScopeCacheTypeMemory),
		ScopeCacheTTL:           getEnvDuration("SCOPE_CACHE_TTL", 10*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EnableRateLimit:             getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:              getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		ClientRegistrationRateLimit: getEnvInt("CLIENT_REGISTRATION_RATE_LIMIT", 10),
		RateLimitCleanupInterval:    getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		MetricsEnabled:       getEnvBool("METRICS_ENABLED", false),
		MetricsToken:         getEnv("METRICS_TOKEN", ""),
		MetricsGaugeCacheTTL: getEnvDuration("METRICS_GAUGE_CACHE_TTL", 30*time.Second),

		EnableAuditLogging: getEnvBool("ENABLE_AUDIT_LOGGING", true),
		AuditLogRetention:  getEnvDuration("AUDIT_LOG_RETENTION", 90*24*time.Hour),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// IsDevelopment reports whether ENVIRONMENT=development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}

// Issuer is the value written to the iss claim and the discovery document.
func (c *Config) Issuer() string {
	return c.BaseURL
}

// SigningSecret returns the JWT secret, falling back to a fixed development
// value outside production.
func (c *Config) SigningSecret() string {
	if c.JWTSecret == "" && c.IsDevelopment() {
		return developmentSecret
	}
	return c.JWTSecret
}

// CookieSecret returns the session secret with the same development fallback.
func (c *Config) CookieSecret() string {
	if c.SessionSecret == "" && c.IsDevelopment() {
		return developmentSecret
	}
	return c.SessionSecret
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case EnvironmentDevelopment, EnvironmentProduction:
	default:
		errs = append(errs, fmt.Errorf("invalid ENVIRONMENT value: %q (must be development or production)", c.Environment))
	}

	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("invalid DATABASE_DRIVER value: %q (must be sqlite or postgres)", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}

	if c.SigningSecret() == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.CookieSecret() == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required outside development"))
	}
	if c.AccessTokenExpiration <= 0 || c.RefreshTokenExpiration <= 0 {
		errs = append(errs, errors.New("token expirations must be positive"))
	}

	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		errs = append(errs, fmt.Errorf("invalid RATE_LIMIT_STORE value: %q (must be memory or redis)", c.RateLimitStore))
	}
	if c.EnableRateLimit && c.ClientRegistrationRateLimit <= 0 {
		errs = append(errs, errors.New("CLIENT_REGISTRATION_RATE_LIMIT must be positive"))
	}

	switch c.ScopeCacheType {
	case ScopeCacheTypeMemory, ScopeCacheTypeRedis:
	default:
		errs = append(errs, fmt.Errorf("invalid SCOPE_CACHE_TYPE value: %q (must be memory or redis)", c.ScopeCacheType))
	}

	switch c.ScopeMetadataAuthMode {
	case AuthModeNone:
	case AuthModeSimple, AuthModeHMAC:
		if c.ScopeMetadataAuthSecret == "" {
			errs = append(errs, fmt.Errorf(
				"SCOPE_METADATA_AUTH_SECRET is required when SCOPE_METADATA_AUTH_MODE=%s",
				c.ScopeMetadataAuthMode,
			))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"invalid SCOPE_METADATA_AUTH_MODE value: %q (must be none, simple or hmac)",
			c.ScopeMetadataAuthMode,
		))
	}

	if c.RedisAddr == "" {
		if c.EnableRateLimit && c.RateLimitStore == RateLimitStoreRedis {
			errs = append(errs, errors.New("REDIS_ADDR is required when RATE_LIMIT_STORE=redis"))
		}
		if c.ScopeCacheType == ScopeCacheTypeRedis {
			errs = append(errs, errors.New("REDIS_ADDR is required when SCOPE_CACHE_TYPE=redis"))
		}
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if parts := splitAndTrim(value, ","); len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
