package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"go.uber.org/zap"
)

// ===============================
// POSTS
// ===============================

// postDirectory implements PostDirectory over the feed's posts table
type postDirectory struct {
	*BaseRepository
}

// NewPostDirectory creates a PostgreSQL-backed PostDirectory
func NewPostDirectory(db *database.Manager, logger *zap.Logger) PostDirectory {
	return &postDirectory{BaseRepository: NewBaseRepository(db, logger)}
}

// Exists returns the author of a post
func (d *postDirectory) Exists(ctx context.Context, postID string) (string, bool, error) {
	var authorID string
	err := d.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	if d.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get post: %w", err)
	}
	return authorID, true, nil
}

// AdjustCommentCount moves a post's comment counter, never below zero
func (d *postDirectory) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	_, err := d.ExecContext(ctx,
		`UPDATE posts SET comment_count = GREATEST(comment_count + $2, 0) WHERE id = $1`,
		postID, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust comment count: %w", err)
	}
	return nil
}

// ===============================
// USERS
// ===============================

// userDirectory implements UserDirectory over the feed's users table
type userDirectory struct {
	*BaseRepository
}

// NewUserDirectory creates a PostgreSQL-backed UserDirectory
func NewUserDirectory(db *database.Manager, logger *zap.Logger) UserDirectory {
	return &userDirectory{BaseRepository: NewBaseRepository(db, logger)}
}

// ResolveByHandle maps an exact username to a user id
func (d *userDirectory) ResolveByHandle(ctx context.Context, handle string) (string, bool, error) {
	var userID string
	err := d.QueryRowContext(ctx, `SELECT id FROM users WHERE username = $1`, handle).Scan(&userID)
	if d.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve handle: %w", err)
	}
	return userID, true, nil
}

// Exists reports whether a user exists
func (d *userDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := d.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

// GetProfile returns the identity snapshot of a user
func (d *userDirectory) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	var avatar sql.NullString

	err := d.QueryRowContext(ctx,
		`SELECT id, username, avatar FROM users WHERE id = $1`, userID,
	).Scan(&profile.ID, &profile.Username, &avatar)
	if d.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	if avatar.Valid {
		profile.Avatar = &avatar.String
	}
	return &profile, nil
}
