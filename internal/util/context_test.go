package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetIPFromContext(t *testing.T) {
	assert.Empty(t, GetIPFromContext(context.Background()))
	assert.Equal(t, "10.0.0.1", GetIPFromContext(WithClientIP(context.Background(), "10.0.0.1")))
}

func TestIPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(IPMiddleware())
	r.GET("/", func(c *gin.Context) {
		seen = GetIPFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4321"
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.10", seen)
}
