package services

import "socialfeed/internal/models"

// ===============================
// COMMENT REQUESTS
// ===============================

// CreateCommentRequest represents a request to create a comment or reply
type CreateCommentRequest struct {
	PostID          string        `json:"post_id"`
	Text            string        `json:"text"`
	ParentCommentID *string       `json:"parent_comment_id,omitempty"`
	Author          models.Author `json:"-"`
}

// EditCommentRequest represents a request to replace a comment's text
type EditCommentRequest struct {
	CommentID string `json:"comment_id"`
	UserID    string `json:"-"`
	Text      string `json:"text"`
}

// ListCommentsRequest represents a request for a page of top-level comments
type ListCommentsRequest struct {
	PostID   string `json:"post_id"`
	Sort     string `json:"sort"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	ViewerID string `json:"-"`
}

// ListRepliesRequest represents a request for the replies of a comment
type ListRepliesRequest struct {
	ParentCommentID string `json:"parent_comment_id"`
	Sort            string `json:"sort"`
	ViewerID        string `json:"-"`
}

// ReactionRequest represents a react or unreact call
type ReactionRequest struct {
	CommentID    string        `json:"comment_id"`
	ReactionType string        `json:"reaction_type"`
	Actor        models.Author `json:"-"`
}
