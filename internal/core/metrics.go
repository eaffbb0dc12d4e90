package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Client Registry
	RecordClientRegistered(success bool)
	RecordClientOperation(operation string, success bool)

	// Token Operations
	RecordTokenIssued(kind string, duration time.Duration)
	RecordTokenRevoked(kind, reason string)
	RecordTokenValidation(kind, result string, duration time.Duration)
	RecordTokensReaped(access, refresh int64)

	// Consent Ledger
	RecordConsent(action string)
	RecordScopeResolution(tier string)
	RecordScopeSourceError(source string)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// TokenCounter counts live tokens for the active-token gauges.
type TokenCounter interface {
	CountActiveTokens(ctx context.Context, kind string, now time.Time) (int64, error)
}
