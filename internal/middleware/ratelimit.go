package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterRedis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitConfig holds the configuration for one rate-limited route group.
type RateLimitConfig struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration // memory store only

	// Prefix namespaces the counters so several limiters can share a store.
	Prefix string

	// RedisClient selects the distributed store when set. The caller owns
	// the connection and closes it on shutdown.
	RedisClient *redis.Client
}

// NewRateLimiter creates a per-IP limiter backed by memory, or by Redis when
// a client is supplied.
func NewRateLimiter(config RateLimitConfig) (gin.HandlerFunc, error) {
	if config.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("requests per minute must be positive, got %d", config.RequestsPerMinute)
	}
	if config.Prefix == "" {
		config.Prefix = "ratelimit"
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  int64(config.RequestsPerMinute),
	}

	opts := limiter.StoreOptions{
		Prefix:          config.Prefix,
		CleanUpInterval: config.CleanupInterval,
	}

	var store limiter.Store
	if config.RedisClient != nil {
		var err error
		store, err = limiterRedis.NewStoreWithOptions(config.RedisClient, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(opts)
	}

	return mgin.NewMiddleware(
		limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		}),
	), nil
}
