package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-authgate/oauthprovider/internal/config"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func addServerRunningJob(m *graceful.Manager, srv *http.Server, logger *zap.Logger) {
	m.AddRunningJob(func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			logger.Error("server failed", zap.Error(err))
			return err
		case <-ctx.Done():
			return nil
		}
	})
}

func addServerShutdownJob(m *graceful.Manager, srv *http.Server, timeout time.Duration, logger *zap.Logger) {
	m.AddShutdownJob(func() error {
		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
			return err
		}
		logger.Info("server exited")
		return nil
	})
}

func addRedisClientShutdownJob(m *graceful.Manager, client *redis.Client, logger *zap.Logger) {
	if client == nil {
		return
	}
	m.AddShutdownJob(func() error {
		if err := client.Close(); err != nil {
			logger.Error("error closing redis client", zap.Error(err))
			return err
		}
		logger.Info("redis connection closed")
		return nil
	})
}

func addCacheShutdownJob(m *graceful.Manager, c *caches, logger *zap.Logger) {
	if c == nil || c.close == nil {
		return
	}
	m.AddShutdownJob(func() error {
		if err := c.close(); err != nil {
			logger.Error("error closing caches", zap.Error(err))
		}
		return nil
	})
}
