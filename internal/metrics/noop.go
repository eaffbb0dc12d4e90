package metrics

import "time"

// NoopMetrics discards every measurement. Used when metrics are disabled.
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordClientRegistered(success bool)                  {}
func (n *NoopMetrics) RecordClientOperation(operation string, success bool) {}

func (n *NoopMetrics) RecordTokenIssued(kind string, duration time.Duration) {}
func (n *NoopMetrics) RecordTokenRevoked(kind, reason string)                {}
func (n *NoopMetrics) RecordTokenValidation(
	kind, result string,
	duration time.Duration,
) {
}
func (n *NoopMetrics) RecordTokensReaped(access, refresh int64) {}

func (n *NoopMetrics) RecordConsent(action string)          {}
func (n *NoopMetrics) RecordScopeResolution(tier string)    {}
func (n *NoopMetrics) RecordScopeSourceError(source string) {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
