// File: internal/monitoring/dashboard.go
package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"socialfeed/internal/database"
	"socialfeed/internal/events"
	"socialfeed/internal/services"

	"go.uber.org/zap"
)

// ===============================
// DASHBOARD CORE
// ===============================

// HealthSource reports the health of the comment engine
type HealthSource interface {
	HealthCheck(ctx context.Context) *services.ServiceHealth
}

// Dashboard aggregates health and runtime metrics for the operational endpoints
type Dashboard struct {
	source      HealthSource
	bus         events.EventBus
	db          *database.Manager
	logger      *zap.Logger
	startTime   time.Time
	service     string
	version     string
	environment string
}

// Option configures optional dashboard inputs
type Option func(*Dashboard)

// WithDatabase adds PostgreSQL pool and query metrics
func WithDatabase(db *database.Manager) Option {
	return func(d *Dashboard) { d.db = db }
}

// WithEventBus adds notification queue metrics
func WithEventBus(bus events.EventBus) Option {
	return func(d *Dashboard) { d.bus = bus }
}

// NewDashboard creates a new monitoring dashboard
func NewDashboard(source HealthSource, logger *zap.Logger, service, version, environment string, opts ...Option) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dashboard{
		source:      source,
		logger:      logger,
		startTime:   time.Now(),
		service:     service,
		version:     version,
		environment: environment,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ===============================
// DATA STRUCTURES
// ===============================

// SystemHealthResponse is the body of the health endpoint
type SystemHealthResponse struct {
	Status      string                 `json:"status"`
	Service     string                 `json:"service"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Timestamp   time.Time              `json:"timestamp"`
	Uptime      string                 `json:"uptime"`
	Components  map[string]interface{} `json:"components,omitempty"`
	Resources   ResourceHealth         `json:"resources"`
	Issues      []string               `json:"issues,omitempty"`
}

// ResourceHealth represents process resource usage
type ResourceHealth struct {
	Memory     ResourceMetric  `json:"memory"`
	Goroutines ResourceMetric  `json:"goroutines"`
	Database   *ResourceMetric `json:"database,omitempty"`
}

// ResourceMetric represents a single resource metric
type ResourceMetric struct {
	Value     interface{} `json:"value"`
	Unit      string      `json:"unit"`
	Status    string      `json:"status"`
	Usage     float64     `json:"usage_percent,omitempty"`
	Threshold interface{} `json:"threshold,omitempty"`
}

// ===============================
// PUBLIC API
// ===============================

// GetSystemHealth reports the engine status together with process resources
func (d *Dashboard) GetSystemHealth(ctx context.Context) *SystemHealthResponse {
	response := &SystemHealthResponse{
		Status:      "healthy",
		Service:     d.service,
		Version:     d.version,
		Environment: d.environment,
		Timestamp:   time.Now(),
		Uptime:      time.Since(d.startTime).Round(time.Second).String(),
	}

	if d.source != nil {
		health := d.source.HealthCheck(ctx)
		response.Status = health.Status
		response.Components = health.Components
		response.Issues = append(response.Issues, health.Issues...)
	}

	d.getResourceHealth(response)

	if response.Status != "healthy" {
		d.logger.Warn("Health check reported problems",
			zap.String("status", response.Status),
			zap.Strings("issues", response.Issues),
		)
	}
	return response
}

// GetComprehensiveMetrics returns counters for the internal metrics endpoint
func (d *Dashboard) GetComprehensiveMetrics() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	metrics := map[string]interface{}{
		"service":   d.service,
		"version":   d.version,
		"uptime":    time.Since(d.startTime).Round(time.Second).String(),
		"timestamp": time.Now(),
		"runtime": map[string]interface{}{
			"goroutines":   runtime.NumGoroutine(),
			"heap_alloc":   formatBytes(mem.HeapAlloc),
			"heap_objects": mem.HeapObjects,
			"gc_cycles":    mem.NumGC,
		},
	}
	if d.bus != nil {
		metrics["notifications"] = d.bus.Stats()
	}
	if d.db != nil {
		metrics["database"] = d.db.Metrics()
	}
	return metrics
}

// ===============================
// RESOURCE HEALTH
// ===============================

// getResourceHealth fills in memory, goroutine and connection pool usage
func (d *Dashboard) getResourceHealth(response *SystemHealthResponse) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	goroutines := runtime.NumGoroutine()
	memoryPercent := 0.0
	if mem.Sys > 0 {
		memoryPercent = float64(mem.HeapAlloc) / float64(mem.Sys) * 100
	}

	response.Resources = ResourceHealth{
		Memory: ResourceMetric{
			Value:  formatBytes(mem.HeapAlloc),
			Unit:   "bytes",
			Status: getResourceStatus(memoryPercent, 80, 90),
			Usage:  memoryPercent,
		},
		Goroutines: ResourceMetric{
			Value:  goroutines,
			Unit:   "count",
			Status: getResourceStatus(float64(goroutines), 1000, 2000),
		},
	}

	if d.db == nil {
		return
	}
	stats := d.db.DB().Stats()
	if stats.MaxOpenConnections == 0 {
		return
	}
	usage := float64(stats.OpenConnections) / float64(stats.MaxOpenConnections) * 100
	response.Resources.Database = &ResourceMetric{
		Value:     stats.OpenConnections,
		Unit:      "connections",
		Status:    getResourceStatus(usage, 70, 85),
		Usage:     usage,
		Threshold: stats.MaxOpenConnections,
	}
	if response.Resources.Database.Status == "critical" && response.Status == "healthy" {
		response.Status = "degraded"
		response.Issues = append(response.Issues, "database connection pool nearly exhausted")
	}
}

// ===============================
// UTILITIES
// ===============================

func getResourceStatus(value, warningThreshold, criticalThreshold float64) string {
	switch {
	case value >= criticalThreshold:
		return "critical"
	case value >= warningThreshold:
		return "warning"
	default:
		return "healthy"
	}
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
