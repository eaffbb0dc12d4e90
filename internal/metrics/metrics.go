package metrics

import (
	"sync"

	"github.com/go-authgate/oauthprovider/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics interface consumed by services and handlers.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Client Registry Metrics
	ClientsRegisteredTotal *prometheus.CounterVec
	ClientOperationsTotal  *prometheus.CounterVec

	// Token Metrics
	TokensIssuedTotal       *prometheus.CounterVec
	TokenIssueDuration      *prometheus.HistogramVec
	TokensRevokedTotal      *prometheus.CounterVec
	TokenValidationTotal    *prometheus.CounterVec
	TokenValidationDuration *prometheus.HistogramVec
	TokensReapedTotal       *prometheus.CounterVec

	// Consent Metrics
	ConsentTotal           *prometheus.CounterVec
	ScopeResolutionTotal   *prometheus.CounterVec
	ScopeSourceErrorsTotal *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns Prometheus-backed metrics when enabled and NoopMetrics
// otherwise. Collectors are registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		ClientsRegisteredTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_clients_registered_total",
				Help: "Total number of client registration attempts",
			},
			[]string{"result"}, // success, error
		),
		ClientOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_client_operations_total",
				Help: "Total number of administrative client operations",
			},
			[]string{"operation", "result"}, // operation: update, delete, rotate_secret
		),

		TokensIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_tokens_issued_total",
				Help: "Total number of tokens issued",
			},
			[]string{"token_type"}, // access, refresh
		),
		TokenIssueDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oauth_token_issue_duration_seconds",
				Help:    "Time taken to issue and persist tokens",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"token_type"},
		),
		TokensRevokedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_tokens_revoked_total",
				Help: "Total number of tokens revoked",
			},
			[]string{"token_type", "reason"}, // reason: admin, client_request
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_token_validation_total",
				Help: "Total number of token validations",
			},
			[]string{"token_type", "result"}, // valid, invalid
		),
		TokenValidationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oauth_token_validation_duration_seconds",
				Help:    "Time taken to validate tokens",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"token_type"},
		),
		TokensReapedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_tokens_reaped_total",
				Help: "Total number of expired token rows removed",
			},
			[]string{"token_type"},
		),

		ConsentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_consent_total",
				Help: "Total number of consent changes",
			},
			[]string{"action"}, // granted, revoked
		),
		ScopeResolutionTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_scope_resolution_total",
				Help: "Scope descriptions resolved, by fallback tier",
			},
			[]string{"tier"}, // metadata, dictionary, raw
		),
		ScopeSourceErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_scope_source_errors_total",
				Help: "Scope metadata lookups that failed and fell back",
			},
			[]string{"source"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001, 0.005, 0.010, 0.025, 0.050, 0.100,
					0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of failed database operations",
			},
			[]string{"operation"},
		),
	}
}
