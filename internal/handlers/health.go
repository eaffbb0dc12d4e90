package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is satisfied by the store and the caches.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Healthz reports 503 when any dependency fails its health check.
func Healthz(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := gin.H{}
		for name, check := range checks {
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = "unhealthy"
				continue
			}
			result[name] = "ok"
		}

		body := gin.H{"status": "ok", "checks": result}
		if status != http.StatusOK {
			body["status"] = "unhealthy"
		}
		c.JSON(status, body)
	}
}
