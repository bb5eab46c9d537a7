package repositories

import (
	"context"
	"time"

	"socialfeed/internal/cache"
	"socialfeed/internal/models"

	"go.uber.org/zap"
)

// CachedUserDirectory memoizes handle resolution in a cache. Only positive
// lookups are cached so a newly registered handle resolves immediately. A hit
// is confirmed against the user's current profile so a renamed or removed
// user stops resolving under the old handle.
type CachedUserDirectory struct {
	next   UserDirectory
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserDirectory wraps a UserDirectory with a handle cache
func NewCachedUserDirectory(next UserDirectory, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedUserDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedUserDirectory{next: next, cache: c, ttl: ttl, logger: logger}
}

// ResolveByHandle checks the cache before asking the wrapped directory
func (d *CachedUserDirectory) ResolveByHandle(ctx context.Context, handle string) (string, bool, error) {
	key := handleCacheKey(handle)
	if userID, ok := d.cache.Get(ctx, key); ok {
		profile, err := d.next.GetProfile(ctx, userID)
		if err != nil {
			return "", false, err
		}
		if profile != nil && profile.Username == handle {
			return userID, true, nil
		}
		if err := d.Invalidate(ctx, handle); err != nil {
			d.logger.Warn("Failed to drop stale handle",
				zap.String("handle", handle),
				zap.Error(err),
			)
		}
	}

	userID, ok, err := d.next.ResolveByHandle(ctx, handle)
	if err != nil || !ok {
		return userID, ok, err
	}

	if err := d.cache.Set(ctx, key, userID, d.ttl); err != nil {
		d.logger.Warn("Failed to cache handle lookup",
			zap.String("handle", handle),
			zap.Error(err),
		)
	}
	return userID, true, nil
}

// Exists delegates to the wrapped directory
func (d *CachedUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	return d.next.Exists(ctx, userID)
}

// GetProfile delegates to the wrapped directory
func (d *CachedUserDirectory) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return d.next.GetProfile(ctx, userID)
}

// Invalidate drops a cached handle
func (d *CachedUserDirectory) Invalidate(ctx context.Context, handle string) error {
	return d.cache.Delete(ctx, handleCacheKey(handle))
}

func handleCacheKey(handle string) string {
	return "handle:" + handle
}
