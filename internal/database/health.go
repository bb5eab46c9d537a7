package database

import (
	"context"
	"time"
)

// Health status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the result of a connectivity check
type HealthStatus struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	Errors       []string      `json:"errors,omitempty"`
	CheckedAt    time.Time     `json:"checked_at"`
}

// Health pings the database and inspects pool saturation
func (m *Manager) Health(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{Status: StatusHealthy, CheckedAt: start}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.db.PingContext(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, err.Error())
	}
	status.ResponseTime = time.Since(start)

	stats := m.db.Stats()
	if status.Status == StatusHealthy && stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
		status.Status = StatusDegraded
		status.Errors = append(status.Errors, "connection pool exhausted")
	}
	return status
}
