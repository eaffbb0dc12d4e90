package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMetricsAuth(t *testing.T) {
	const token = "scrape-token-123"

	tests := []struct {
		name    string
		token   string
		header  string
		status  int
		message string
	}{
		{name: "open when unconfigured", token: "", status: http.StatusOK},
		{name: "valid token", token: token, header: "Bearer " + token, status: http.StatusOK},
		{name: "missing header", token: token, status: http.StatusUnauthorized, message: "bearer token required"},
		{name: "wrong scheme", token: token, header: "Basic dGVzdDp0ZXN0", status: http.StatusUnauthorized, message: "bearer token required"},
		{name: "wrong token", token: token, header: "Bearer nope", status: http.StatusUnauthorized, message: "invalid token"},
		{name: "empty bearer", token: token, header: "Bearer ", status: http.StatusUnauthorized, message: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(MetricsAuth(tt.token))
			r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "metrics") })

			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Contains(t, w.Body.String(), tt.message)
				assert.Equal(t, `Bearer realm="metrics"`, w.Header().Get("WWW-Authenticate"))
			} else {
				assert.Equal(t, "metrics", w.Body.String())
			}
		})
	}
}
