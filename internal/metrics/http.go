package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

func resultLabel(success bool) string {
	if success {
		return resultSuccess
	}
	return resultError
}

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	metrics, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		method := c.Request.Method
		path := normalizePath(c.FullPath()) // route pattern keeps label cardinality bounded
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

func (m *Metrics) RecordClientRegistered(success bool) {
	m.ClientsRegisteredTotal.WithLabelValues(resultLabel(success)).Inc()
}

func (m *Metrics) RecordClientOperation(operation string, success bool) {
	m.ClientOperationsTotal.WithLabelValues(operation, resultLabel(success)).Inc()
}

func (m *Metrics) RecordTokenIssued(kind string, duration time.Duration) {
	m.TokensIssuedTotal.WithLabelValues(kind).Inc()
	m.TokenIssueDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *Metrics) RecordTokenRevoked(kind, reason string) {
	m.TokensRevokedTotal.WithLabelValues(kind, reason).Inc()
}

// RecordTokenValidation records a validation outcome: valid or invalid.
func (m *Metrics) RecordTokenValidation(kind, result string, duration time.Duration) {
	m.TokenValidationTotal.WithLabelValues(kind, result).Inc()
	m.TokenValidationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *Metrics) RecordTokensReaped(access, refresh int64) {
	m.TokensReapedTotal.WithLabelValues("access").Add(float64(access))
	m.TokensReapedTotal.WithLabelValues("refresh").Add(float64(refresh))
}

func (m *Metrics) RecordConsent(action string) {
	m.ConsentTotal.WithLabelValues(action).Inc()
}

// RecordScopeResolution counts one resolved scope by the tier that answered.
func (m *Metrics) RecordScopeResolution(tier string) {
	m.ScopeResolutionTotal.WithLabelValues(tier).Inc()
}

func (m *Metrics) RecordScopeSourceError(source string) {
	m.ScopeSourceErrorsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
