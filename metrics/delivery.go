package metrics

import "sync/atomic"

// DeliveryMetrics counts webhook outcomes for one engine instance.
type DeliveryMetrics struct {
	MatchedCount   atomic.Int64
	DeliveredCount atomic.Int64
	FailedCount    atomic.Int64
}
