package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DeletedSentinel replaces the text and author identity of a soft-deleted comment
const DeletedSentinel = "[deleted]"

// MaxCommentLength is the maximum number of characters allowed in a comment body
const MaxCommentLength = 500

// ===============================
// COMMENT MODELS
// ===============================

// Comment represents a top-level comment or a reply on a post
type Comment struct {
	// Core fields
	ID     string `json:"id" bson:"id" db:"id"`
	PostID string `json:"post_id" bson:"post_id" db:"post_id"`
	Text   string `json:"text" bson:"text" db:"text"`

	// Author snapshot taken at creation time
	AuthorID       string  `json:"user_id" bson:"user_id" db:"author_id"`
	AuthorUsername string  `json:"username" bson:"username" db:"author_username"`
	AuthorAvatar   *string `json:"avatar" bson:"avatar" db:"author_avatar"`

	// Thread support (nil for top-level comments)
	ParentCommentID *string `json:"parent_comment_id" bson:"parent_comment_id" db:"parent_comment_id"`

	// Mentions and reactions
	MentionedUserIDs []string                `json:"mentioned_user_ids" bson:"mentioned_user_ids" db:"mentioned_user_ids"`
	Reactions        map[string]ReactionType `json:"-" bson:"reactions" db:"-"`
	ReactionSummary  ReactionSummary         `json:"reaction_summary" bson:"-" db:"-"`

	// Engagement tracking
	LikeCount  int `json:"like_count" bson:"like_count" db:"like_count"`
	ReplyCount int `json:"reply_count" bson:"reply_count" db:"reply_count"`

	// State
	IsEdited  bool `json:"is_edited" bson:"is_edited" db:"is_edited"`
	IsDeleted bool `json:"is_deleted" bson:"is_deleted" db:"is_deleted"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`

	// Viewer-specific fields
	HasLiked     bool          `json:"has_liked" bson:"-" db:"-"`
	UserReaction *ReactionType `json:"user_reaction" bson:"-" db:"-"`
}

// IsTopLevel reports whether the comment is attached directly to a post
func (c *Comment) IsTopLevel() bool {
	return c.ParentCommentID == nil
}

// RecomputeReactions derives the summary and total count from the reaction map
func (c *Comment) RecomputeReactions() {
	c.ReactionSummary = SummarizeReactions(c.Reactions)
	c.LikeCount = c.ReactionSummary.Total()
}

// ForViewer fills the viewer-specific fields for the given user
func (c *Comment) ForViewer(userID string) *Comment {
	c.UserReaction = nil
	c.HasLiked = false
	if rt, ok := c.Reactions[userID]; ok {
		reaction := rt
		c.UserReaction = &reaction
		c.HasLiked = true
	}
	if c.ReactionSummary == nil {
		c.ReactionSummary = SummarizeReactions(c.Reactions)
	}
	if c.MentionedUserIDs == nil {
		c.MentionedUserIDs = []string{}
	}
	return c
}

// Tombstone clears the comment content in place, keeping its id and thread linkage
func (c *Comment) Tombstone(now time.Time) {
	sentinel := DeletedSentinel
	c.Text = DeletedSentinel
	c.AuthorUsername = DeletedSentinel
	c.AuthorAvatar = &sentinel
	c.Reactions = map[string]ReactionType{}
	c.MentionedUserIDs = []string{}
	c.ReactionSummary = ReactionSummary{}
	c.LikeCount = 0
	c.IsDeleted = true
	c.UpdatedAt = now
}

// Clone returns a deep copy of the comment
func (c *Comment) Clone() *Comment {
	clone := *c
	if c.AuthorAvatar != nil {
		avatar := *c.AuthorAvatar
		clone.AuthorAvatar = &avatar
	}
	if c.ParentCommentID != nil {
		parent := *c.ParentCommentID
		clone.ParentCommentID = &parent
	}
	if c.UserReaction != nil {
		reaction := *c.UserReaction
		clone.UserReaction = &reaction
	}
	clone.MentionedUserIDs = append([]string(nil), c.MentionedUserIDs...)
	clone.Reactions = make(map[string]ReactionType, len(c.Reactions))
	for userID, rt := range c.Reactions {
		clone.Reactions[userID] = rt
	}
	clone.ReactionSummary = make(ReactionSummary, len(c.ReactionSummary))
	for rt, count := range c.ReactionSummary {
		clone.ReactionSummary[rt] = count
	}
	return &clone
}

// Author is the identity snapshot copied onto a comment at creation
type Author struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar,omitempty"`
}

// DeleteOutcome describes which terminal state a delete produced
type DeleteOutcome string

const (
	DeleteOutcomeRemoved     DeleteOutcome = "removed"
	DeleteOutcomeSoftDeleted DeleteOutcome = "soft_deleted"
)

// ===============================
// REQUEST MODELS
// ===============================

// CreateCommentRequest represents a request to create a comment or reply
type CreateCommentRequest struct {
	PostID          string  `json:"post_id" validate:"required"`
	Text            string  `json:"text" validate:"required"`
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest represents a request to edit a comment
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ReactRequest represents a request to react to a comment
type ReactRequest struct {
	ReactionType string `json:"reaction_type" validate:"required"`
}

// NormalizeCommentText trims surrounding whitespace from a comment body
func NormalizeCommentText(text string) string {
	return strings.TrimSpace(text)
}

// CommentLength returns the length of a comment body in characters
func CommentLength(text string) int {
	return utf8.RuneCountInString(text)
}

// ===============================
// RESPONSE MODELS
// ===============================

// CommentListResponse is a page of top-level comments
type CommentListResponse struct {
	Comments []*Comment `json:"comments"`
	Total    int        `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// ReplyListResponse is the full reply list of a top-level comment
type ReplyListResponse struct {
	Replies []*Comment `json:"replies"`
}

// ReactionResponse is returned by react/unreact endpoints
type ReactionResponse struct {
	CommentID       string          `json:"comment_id"`
	UserReaction    *ReactionType   `json:"user_reaction"`
	ReactionSummary ReactionSummary `json:"reaction_summary"`
	LikeCount       int             `json:"like_count"`
	HasLiked        bool            `json:"has_liked"`
}

// DeleteCommentResponse is returned after a successful delete
type DeleteCommentResponse struct {
	Detail  string        `json:"detail"`
	Outcome DeleteOutcome `json:"outcome"`
}
