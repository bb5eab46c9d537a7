package repositories

import (
	"context"

	"socialfeed/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// CommentRepository defines the contract for comment storage. Every mutating
// method runs its read-check-write sequence atomically for the affected comment.
type CommentRepository interface {
	// Create persists a comment. For replies the parent is validated and its
	// reply_count incremented in the same unit of work.
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID returns nil, nil when the comment does not exist
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// Listing
	ListTopLevel(ctx context.Context, postID string, sort models.SortMode, page models.Page) ([]*models.Comment, int, error)
	ListReplies(ctx context.Context, parentID string, sort models.SortMode) ([]*models.Comment, error)

	// Update applies mutate to the locked comment and persists text, mentions,
	// edit flag and updated_at. Errors returned by mutate are passed through.
	Update(ctx context.Context, id string, mutate func(*models.Comment) error) (*models.Comment, error)

	// MutateReaction applies fn to the user's current reaction on a live comment
	MutateReaction(ctx context.Context, commentID, userID string, fn models.ReactionMutator) (*models.ReactionResult, error)

	// Delete locks the comment, re-counts its replies and lets decide pick the
	// outcome. The returned comment is the state before deletion.
	Delete(ctx context.Context, id string, decide DeleteDecider) (*models.Comment, models.DeleteOutcome, error)

	// Health checks store connectivity
	Health(ctx context.Context) error
}

// DeleteDecider chooses a delete outcome for a comment given its live reply count
type DeleteDecider func(comment *models.Comment, replyCount int) (models.DeleteOutcome, error)

// ===============================
// COLLABORATOR INTERFACES
// ===============================

// PostDirectory answers questions about posts owned by the feed service
type PostDirectory interface {
	// Exists returns the post author when the post exists
	Exists(ctx context.Context, postID string) (authorID string, ok bool, err error)
	AdjustCommentCount(ctx context.Context, postID string, delta int) error
}

// UserDirectory answers questions about users owned by the feed service
type UserDirectory interface {
	// ResolveByHandle maps an exact username to a user id
	ResolveByHandle(ctx context.Context, handle string) (userID string, ok bool, err error)
	Exists(ctx context.Context, userID string) (bool, error)
	// GetProfile returns nil, nil when the user does not exist
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// NotificationSink stores notifications. Create must be idempotent on the
// notification id so retried deliveries never duplicate.
type NotificationSink interface {
	Create(ctx context.Context, notification *models.Notification) error
}
