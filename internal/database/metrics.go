package database

import (
	"database/sql"
	"sync/atomic"
	"time"
)

// Metrics collects database query counters
type Metrics struct {
	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64
	txCount        int64

	slowQueryThreshold time.Duration
}

// MetricsSnapshot provides a point-in-time view of metrics
type MetricsSnapshot struct {
	QueryCount       int64         `json:"query_count"`
	ErrorCount       int64         `json:"error_count"`
	SlowQueryCount   int64         `json:"slow_query_count"`
	TransactionCount int64         `json:"transaction_count"`
	AvgQueryDuration time.Duration `json:"avg_query_duration"`
	OpenConnections  int           `json:"open_connections"`
	InUse            int           `json:"in_use"`
	Idle             int           `json:"idle"`
	Timestamp        time.Time     `json:"timestamp"`
}

// NewMetrics creates a new metrics collector
func NewMetrics(slowQueryThreshold time.Duration) *Metrics {
	return &Metrics{slowQueryThreshold: slowQueryThreshold}
}

// RecordQuery records metrics for a database query
func (m *Metrics) RecordQuery(queryType string, duration time.Duration, err error) {
	if queryType == "begin_tx" {
		atomic.AddInt64(&m.txCount, 1)
	} else {
		atomic.AddInt64(&m.queryCount, 1)
		atomic.AddInt64(&m.queryDuration, int64(duration))
	}
	if err != nil && err != sql.ErrNoRows {
		atomic.AddInt64(&m.errorCount, 1)
	}
	if duration > m.slowQueryThreshold {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}
}

// Snapshot returns current metrics snapshot
func (m *Metrics) Snapshot(stats sql.DBStats) *MetricsSnapshot {
	queryCount := atomic.LoadInt64(&m.queryCount)
	totalDuration := atomic.LoadInt64(&m.queryDuration)

	var avg time.Duration
	if queryCount > 0 {
		avg = time.Duration(totalDuration / queryCount)
	}

	return &MetricsSnapshot{
		QueryCount:       queryCount,
		ErrorCount:       atomic.LoadInt64(&m.errorCount),
		SlowQueryCount:   atomic.LoadInt64(&m.slowQueryCount),
		TransactionCount: atomic.LoadInt64(&m.txCount),
		AvgQueryDuration: avg,
		OpenConnections:  stats.OpenConnections,
		InUse:            stats.InUse,
		Idle:             stats.Idle,
		Timestamp:        time.Now(),
	}
}
