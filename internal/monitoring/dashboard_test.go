package monitoring

import (
	"context"
	"testing"
	"time"

	"socialfeed/internal/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type staticHealth struct {
	health *services.ServiceHealth
}

func (s staticHealth) HealthCheck(ctx context.Context) *services.ServiceHealth {
	return s.health
}

func TestDashboard_GetSystemHealth(t *testing.T) {
	source := staticHealth{health: &services.ServiceHealth{
		Status:     "degraded",
		Timestamp:  time.Now(),
		Components: map[string]interface{}{"store": map[string]interface{}{"status": "healthy"}},
		Issues:     []string{"event bus is stopped"},
	}}

	d := NewDashboard(source, zap.NewNop(), "socialfeed-comments", "1.2.3", "test")
	health := d.GetSystemHealth(context.Background())

	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "socialfeed-comments", health.Service)
	assert.Equal(t, "1.2.3", health.Version)
	assert.Equal(t, []string{"event bus is stopped"}, health.Issues)
	assert.Contains(t, health.Components, "store")
	assert.Nil(t, health.Resources.Database)
	assert.Equal(t, "count", health.Resources.Goroutines.Unit)
}

func TestDashboard_GetComprehensiveMetrics(t *testing.T) {
	d := NewDashboard(nil, nil, "svc", "dev", "test")
	metrics := d.GetComprehensiveMetrics()

	assert.Equal(t, "svc", metrics["service"])
	assert.Contains(t, metrics, "runtime")
	assert.NotContains(t, metrics, "database")
	assert.NotContains(t, metrics, "notifications")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
	assert.Equal(t, "warning", getResourceStatus(75, 70, 85))
}
