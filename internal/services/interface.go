// file: internal/services/interfaces.go
package services

import (
	"context"

	"socialfeed/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// CommentService defines the comment and reaction business logic
type CommentService interface {
	// Core CRUD operations
	CreateComment(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error)
	EditComment(ctx context.Context, req *EditCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID string) (*models.DeleteCommentResponse, error)

	// Listing
	ListTopLevel(ctx context.Context, req *ListCommentsRequest) (*models.CommentListResponse, error)
	ListReplies(ctx context.Context, req *ListRepliesRequest) (*models.ReplyListResponse, error)

	// Reactions
	React(ctx context.Context, req *ReactionRequest) (*models.ReactionResponse, error)
	Unreact(ctx context.Context, req *ReactionRequest) (*models.ReactionResponse, error)
	Like(ctx context.Context, commentID string, actor models.Author) (*models.ReactionResponse, error)
	Unlike(ctx context.Context, commentID string, actor models.Author) (*models.ReactionResponse, error)
}

// AvatarResolver turns a stored avatar reference into the URL shown to clients
type AvatarResolver interface {
	Thumbnail(avatar *string) *string
}
