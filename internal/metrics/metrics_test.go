package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	m := Init(true)
	require.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.ClientsRegisteredTotal)
	assert.NotNil(t, metrics.TokensIssuedTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	assert.Same(t, metrics, Init(true), "Init should register collectors once")
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")
}

func TestRecordClientRegistered(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.ClientsRegisteredTotal.WithLabelValues("error"))
	m.RecordClientRegistered(false)
	after := testutil.ToFloat64(m.ClientsRegisteredTotal.WithLabelValues("error"))
	assert.InDelta(t, 1, after-before, 0.0001)
}

func TestRecordTokensReaped(t *testing.T) {
	m := Init(true).(*Metrics)

	beforeAccess := testutil.ToFloat64(m.TokensReapedTotal.WithLabelValues("access"))
	beforeRefresh := testutil.ToFloat64(m.TokensReapedTotal.WithLabelValues("refresh"))
	m.RecordTokensReaped(3, 1)
	assert.InDelta(t, 3, testutil.ToFloat64(m.TokensReapedTotal.WithLabelValues("access"))-beforeAccess, 0.0001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TokensReapedTotal.WithLabelValues("refresh"))-beforeRefresh, 0.0001)
}

func TestRecordScopeResolution(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.ScopeResolutionTotal.WithLabelValues("dictionary"))
	m.RecordScopeResolution("dictionary")
	m.RecordScopeResolution("dictionary")
	after := testutil.ToFloat64(m.ScopeResolutionTotal.WithLabelValues("dictionary"))
	assert.InDelta(t, 2, after-before, 0.0001)
}

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()

	// None of these may panic.
	m.RecordClientRegistered(true)
	m.RecordClientOperation("delete", false)
	m.RecordTokenIssued("access", time.Millisecond)
	m.RecordTokenRevoked("refresh", "admin")
	m.RecordTokenValidation("access", "invalid", time.Millisecond)
	m.RecordTokensReaped(1, 2)
	m.RecordConsent("granted")
	m.RecordScopeResolution("raw")
	m.RecordScopeSourceError("file")
	m.RecordDatabaseQueryError("count_active_access")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := Init(true).(*Metrics)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/api/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/items/:id", "204"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items/42", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	after := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/items/:id", "204"))
	assert.InDelta(t, 1, after-before, 0.0001)

	beforeMetrics := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	afterMetrics := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200"))
	assert.InDelta(t, 0, afterMetrics-beforeMetrics, 0.0001)
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/api/consent", normalizePath("/api/consent"))
}
