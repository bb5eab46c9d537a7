// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"socialfeed/internal/cache"
	"socialfeed/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	Comment       CommentRepository
	Posts         PostDirectory
	Users         UserDirectory
	Notifications NotificationSink

	// Backend name for health reporting
	Backend string

	handleCache cache.Cache
	logger      *zap.Logger
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	HandleCache    cache.Cache
	HandleCacheTTL time.Duration
}

// NewPostgresCollection wires every repository to PostgreSQL
func NewPostgresCollection(db *database.Manager, logger *zap.Logger, config *RepositoryConfig) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}

	collection := &Collection{
		Comment:       NewCommentRepository(db, logger),
		Posts:         NewPostDirectory(db, logger),
		Users:         NewUserDirectory(db, logger),
		Notifications: NewNotificationRepository(db, logger),
		Backend:       "postgres",
	}
	return collection.finish(logger, config), nil
}

// NewMongoCollection wires every repository to MongoDB
func NewMongoCollection(store *database.MongoStore, logger *zap.Logger, config *RepositoryConfig) (*Collection, error) {
	if store == nil {
		return nil, fmt.Errorf("mongo store is required")
	}

	collection := &Collection{
		Comment:       NewMongoCommentRepository(store, logger),
		Posts:         NewMongoPostDirectory(store),
		Users:         NewMongoUserDirectory(store),
		Notifications: NewMongoNotificationRepository(store),
		Backend:       "mongo",
	}
	return collection.finish(logger, config), nil
}

// NewMemoryCollection wires every repository to in-process storage
func NewMemoryCollection(directory *MemoryDirectory, sink *MemoryNotificationSink, logger *zap.Logger, config *RepositoryConfig) *Collection {
	collection := &Collection{
		Comment:       NewMemoryCommentRepository(logger),
		Posts:         directory.Posts(),
		Users:         directory.Users(),
		Notifications: sink,
		Backend:       "memory",
	}
	return collection.finish(logger, config)
}

// finish applies the handle cache and logs the wiring
func (c *Collection) finish(logger *zap.Logger, config *RepositoryConfig) *Collection {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger

	if config != nil && config.HandleCache != nil {
		c.handleCache = config.HandleCache
		c.Users = NewCachedUserDirectory(c.Users, config.HandleCache, config.HandleCacheTTL, logger)
	}

	logger.Info("Repository collection initialized successfully",
		zap.String("backend", c.Backend),
		zap.Bool("handle_cache", c.handleCache != nil),
	)
	return c
}

// ===============================
// HEALTH AND MONITORING
// ===============================

// HealthCheck reports the state of the comment store and the handle cache
func (c *Collection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	storeStatus := "healthy"
	if err := c.Comment.Health(ctx); err != nil {
		storeStatus = "unhealthy"
		c.logger.Warn("Comment store health check failed", zap.Error(err))
	}
	health["store"] = map[string]interface{}{
		"backend": c.Backend,
		"status":  storeStatus,
	}

	if c.handleCache != nil {
		cacheStatus := "healthy"
		if err := c.handleCache.Health(ctx); err != nil {
			cacheStatus = "unhealthy"
		}
		entry := map[string]interface{}{"status": cacheStatus}
		if stats, err := c.handleCache.Stats(ctx); err == nil {
			entry["hit_ratio"] = stats.HitRatio
			entry["keys"] = stats.Keys
		}
		health["handle_cache"] = entry
	}

	return health
}

// IsHealthy reports whether the comment store is reachable
func (c *Collection) IsHealthy(ctx context.Context) bool {
	return c.Comment.Health(ctx) == nil
}
