// file: internal/services/service_collection.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialfeed/internal/config"
	"socialfeed/internal/events"
	"socialfeed/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection holds the comment engine services with dependency injection
type ServiceCollection struct {
	// Core Services
	CommentService CommentService          `json:"-"`
	Dispatcher     *NotificationDispatcher `json:"-"`
	Mentions       *MentionResolver        `json:"-"`

	// Repository Collection
	Repositories *repositories.Collection `json:"-"`

	// Infrastructure Components
	EventBus events.EventBus `json:"-"`
	Avatars  AvatarResolver  `json:"-"`
	Logger   *zap.Logger     `json:"-"`
	Config   *config.Config  `json:"-"`

	// Service Management
	startTime time.Time    `json:"-"`
	mu        sync.RWMutex `json:"-"`
	started   bool         `json:"-"`
}

// ServiceHealth represents the health status of the service collection
type ServiceHealth struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Uptime     string                 `json:"uptime"`
	Components map[string]interface{} `json:"components"`
	Issues     []string               `json:"issues,omitempty"`
}

// NewServiceCollection wires the services on top of a repository collection.
// avatars may be nil, in which case stored avatars are returned unchanged.
func NewServiceCollection(
	repos *repositories.Collection,
	bus events.EventBus,
	avatars AvatarResolver,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository collection is required")
	}
	if bus == nil {
		return nil, fmt.Errorf("event bus is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	dispatcher, err := NewNotificationDispatcher(bus, repos.Notifications, repos.Users, logger, dispatcherConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notification dispatcher: %w", err)
	}

	mentions := NewMentionResolver(repos.Users, logger)

	collection := &ServiceCollection{
		Dispatcher:   dispatcher,
		Mentions:     mentions,
		Repositories: repos,
		EventBus:     bus,
		Avatars:      avatars,
		Logger:       logger,
		Config:       cfg,
		startTime:    time.Now(),
	}

	collection.CommentService = NewCommentService(
		repos.Comment,
		repos.Posts,
		repos.Users,
		mentions,
		dispatcher,
		avatars,
		logger,
	)

	logger.Info("Service collection initialized successfully",
		zap.String("backend", repos.Backend),
		zap.Bool("avatar_transform", avatars != nil),
	)

	return collection, nil
}

// dispatcherConfig derives delivery settings from configuration
func dispatcherConfig(cfg *config.Config) *DispatcherConfig {
	dc := DefaultDispatcherConfig()
	if cfg == nil {
		return dc
	}
	n := cfg.Notifications
	if n.MaxRetries > 0 {
		dc.MaxRetries = n.MaxRetries
	}
	if n.RetryDelay > 0 {
		dc.RetryDelay = n.RetryDelay
	}
	if n.WriteTimeout > 0 {
		dc.WriteTimeout = n.WriteTimeout
	}
	return dc
}

// ===============================
// LIFECYCLE
// ===============================

// Start launches the event bus workers that deliver notifications
func (sc *ServiceCollection) Start(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.started {
		return nil
	}
	if err := sc.EventBus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}
	sc.started = true
	sc.Logger.Info("Service collection started")
	return nil
}

// Shutdown drains pending notifications and stops the event bus
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.started {
		return nil
	}
	sc.started = false

	sc.Logger.Info("Shutting down service collection")
	if err := sc.EventBus.Stop(ctx); err != nil {
		sc.Logger.Error("Event bus did not stop cleanly", zap.Error(err))
		return err
	}
	sc.Logger.Info("Service collection shutdown completed")
	return nil
}

// ===============================
// HEALTH AND MONITORING
// ===============================

// HealthCheck reports the status of the store, the cache and the event bus
func (sc *ServiceCollection) HealthCheck(ctx context.Context) *ServiceHealth {
	health := &ServiceHealth{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Uptime:     time.Since(sc.startTime).Round(time.Second).String(),
		Components: sc.Repositories.HealthCheck(ctx),
	}

	if !sc.Repositories.IsHealthy(ctx) {
		health.Status = "unhealthy"
		health.Issues = append(health.Issues, "comment store is unreachable")
	}

	busStatus := "healthy"
	if err := sc.EventBus.Health(); err != nil {
		busStatus = "degraded"
		health.Issues = append(health.Issues, err.Error())
		if health.Status == "healthy" {
			health.Status = "degraded"
		}
	}
	health.Components["event_bus"] = map[string]interface{}{
		"status": busStatus,
		"stats":  sc.EventBus.Stats(),
	}

	return health
}
