package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment:                 EnvironmentProduction,
		DatabaseDriver:              DatabaseDriverSQLite,
		DatabaseDSN:                 "oauth.db",
		JWTSecret:                   "jwt-secret",
		SessionSecret:               "session-secret",
		AccessTokenExpiration:       time.Hour,
		RefreshTokenExpiration:      24 * time.Hour,
		EnableRateLimit:             true,
		RateLimitStore:              RateLimitStoreMemory,
		ClientRegistrationRateLimit: 10,
		ScopeCacheType:              ScopeCacheTypeMemory,
		ScopeMetadataAuthMode:       AuthModeNone,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid memory store",
			mutate: func(c *Config) {},
		},
		{
			name: "valid redis store",
			mutate: func(c *Config) {
				c.RateLimitStore = RateLimitStoreRedis
				c.ScopeCacheType = ScopeCacheTypeRedis
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name:     "invalid store - typo",
			mutate:   func(c *Config) { c.RateLimitStore = "reddis" },
			errorMsg: `invalid RATE_LIMIT_STORE value: "reddis"`,
		},
		{
			name:     "invalid store - uppercase",
			mutate:   func(c *Config) { c.RateLimitStore = "MEMORY" },
			errorMsg: `invalid RATE_LIMIT_STORE value: "MEMORY"`,
		},
		{
			name:     "redis store without address",
			mutate:   func(c *Config) { c.RateLimitStore = RateLimitStoreRedis },
			errorMsg: "REDIS_ADDR is required when RATE_LIMIT_STORE=redis",
		},
		{
			name:     "redis scope cache without address",
			mutate:   func(c *Config) { c.ScopeCacheType = ScopeCacheTypeRedis },
			errorMsg: "REDIS_ADDR is required when SCOPE_CACHE_TYPE=redis",
		},
		{
			name:     "unknown driver",
			mutate:   func(c *Config) { c.DatabaseDriver = "mysql" },
			errorMsg: `invalid DATABASE_DRIVER value: "mysql"`,
		},
		{
			name:     "empty jwt secret in production",
			mutate:   func(c *Config) { c.JWTSecret = "" },
			errorMsg: "JWT_SECRET is required outside development",
		},
		{
			name: "empty secrets in development",
			mutate: func(c *Config) {
				c.Environment = EnvironmentDevelopment
				c.JWTSecret = ""
				c.SessionSecret = ""
			},
		},
		{
			name: "hmac without secret",
			mutate: func(c *Config) {
				c.ScopeMetadataAuthMode = AuthModeHMAC
			},
			errorMsg: "SCOPE_METADATA_AUTH_SECRET is required when SCOPE_METADATA_AUTH_MODE=hmac",
		},
		{
			name:     "unknown environment",
			mutate:   func(c *Config) { c.Environment = "staging" },
			errorMsg: `invalid ENVIRONMENT value: "staging"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseDriver = "mysql"
	cfg.RateLimitStore = "reddis"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DRIVER")
	assert.Contains(t, err.Error(), "RATE_LIMIT_STORE")
}

func TestConfig_SecretsFallBackOnlyInDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	assert.Empty(t, cfg.SigningSecret())

	cfg.Environment = EnvironmentDevelopment
	assert.Equal(t, developmentSecret, cfg.SigningSecret())
	assert.Equal(t, "session-secret", cfg.CookieSecret())
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiration)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenExpiration)
	assert.Equal(t, RateLimitStoreMemory, cfg.RateLimitStore)
	assert.Equal(t, ScopeCacheTypeMemory, cfg.ScopeCacheType)
	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout)
	assert.Equal(t, 5*time.Second, cfg.RedisConnTimeout)
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)
	assert.Contains(t, cfg.ScopesSupported, "openid")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/oauth")
	t.Setenv("DATABASE_AUTO_MIGRATE", "true")
	t.Setenv("BASE_URL", "https://auth.example.com/")
	t.Setenv("SCOPES_SUPPORTED", "openid, email ,,calendar")
	t.Setenv("CLIENT_REGISTRATION_RATE_LIMIT", "25")
	t.Setenv("SCOPE_CACHE_TTL", "90s")

	cfg := Load()

	assert.Equal(t, DatabaseDriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://localhost/oauth", cfg.DatabaseDSN)
	assert.True(t, cfg.DatabaseAutoMigrate)
	assert.Equal(t, "https://auth.example.com", cfg.BaseURL)
	assert.Equal(t, "https://auth.example.com", cfg.Issuer())
	assert.Equal(t, []string{"openid", "email", "calendar"}, cfg.ScopesSupported)
	assert.Equal(t, 25, cfg.ClientRegistrationRateLimit)
	assert.Equal(t, 90*time.Second, cfg.ScopeCacheTTL)
}

// TestTimeoutConfigurationInvalidValues verifies that invalid values fall back to defaults
func TestTimeoutConfigurationInvalidValues(t *testing.T) {
	t.Setenv("DB_INIT_TIMEOUT", "invalid")
	t.Setenv("REDIS_DB", "two")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
}
