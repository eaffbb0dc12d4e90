package bootstrap

import (
	"github.com/go-authgate/oauthprovider/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger: human readable in development, JSON
// otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
