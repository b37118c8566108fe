package metrics

import "time"

// NoopMetrics is a no-operation Recorder used when metrics are disabled.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(provider string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordLogout(sessionDuration time.Duration)                        {}
func (n *NoopMetrics) RecordIdentityOperation(operation string, success bool)            {}
func (n *NoopMetrics) RecordSessionLookup(result string)                                 {}
func (n *NoopMetrics) RecordExternalAPICall(provider string, duration time.Duration)     {}

func (n *NoopMetrics) RecordKitEvent(kind, result string)         {}
func (n *NoopMetrics) RecordKitBatchFlush(size int, success bool) {}

func (n *NoopMetrics) SetActiveSessionsCount(count int)  {}
func (n *NoopMetrics) SetRegisteredUsersCount(count int) {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
