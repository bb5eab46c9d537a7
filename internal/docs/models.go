package docs

import "time"

// CreateCommentBody is the request body of POST /api/comments
type CreateCommentBody struct {
	PostID          string  `json:"post_id" example:"p-42"`
	Text            string  `json:"text" example:"Great post @alice!"`
	ParentCommentID *string `json:"parent_comment_id,omitempty" example:"c-17"`
}

// UpdateCommentBody is the request body of PUT /api/comments/{id}
type UpdateCommentBody struct {
	Text string `json:"text" example:"Edited text"`
}

// ReactBody is the request body of POST /api/comments/{id}/react
type ReactBody struct {
	ReactionType string `json:"reaction_type" example:"love" enums:"like,love,laugh,wow,sad,angry"`
}

// Comment is a comment as returned to a viewer
type Comment struct {
	ID               string         `json:"id" example:"c-17"`
	PostID           string         `json:"post_id" example:"p-42"`
	UserID           string         `json:"user_id" example:"u-1"`
	Username         string         `json:"username" example:"alice"`
	Avatar           *string        `json:"avatar" example:"https://res.cloudinary.com/demo/image/upload/c_fill,g_face,w_64,h_64/avatars/alice"`
	Text             string         `json:"text" example:"Great post!"`
	ParentCommentID  *string        `json:"parent_comment_id"`
	MentionedUserIDs []string       `json:"mentioned_user_ids"`
	ReactionSummary  map[string]int `json:"reaction_summary"`
	LikeCount        int            `json:"like_count" example:"3"`
	ReplyCount       int            `json:"reply_count" example:"1"`
	IsEdited         bool           `json:"is_edited" example:"false"`
	IsDeleted        bool           `json:"is_deleted" example:"false"`
	HasLiked         bool           `json:"has_liked" example:"true"`
	UserReaction     *string        `json:"user_reaction" example:"like"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// CommentList is a page of top-level comments
type CommentList struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total" example:"57"`
	Limit    int       `json:"limit" example:"20"`
	Offset   int       `json:"offset" example:"0"`
}

// ReplyList holds every reply of a top-level comment
type ReplyList struct {
	Replies []Comment `json:"replies"`
}

// ReactionResult is returned by the reaction endpoints
type ReactionResult struct {
	CommentID       string         `json:"comment_id" example:"c-17"`
	UserReaction    *string        `json:"user_reaction" example:"love"`
	ReactionSummary map[string]int `json:"reaction_summary"`
	LikeCount       int            `json:"like_count" example:"4"`
	HasLiked        bool           `json:"has_liked" example:"true"`
}

// DeleteResult is returned after a delete
type DeleteResult struct {
	Detail  string `json:"detail" example:"Comment deleted successfully"`
	Outcome string `json:"outcome" example:"soft_deleted" enums:"removed,soft_deleted"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Detail    string      `json:"detail" example:"Comment not found"`
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id" example:"7b0c4e56-2f7e-4c1a-9a57-4c0a3f1d2e10"`
}

// ErrorDetail contains the machine-readable part of an error
type ErrorDetail struct {
	Type    string                 `json:"type" example:"NOT_FOUND"`
	Message string                 `json:"message" example:"Comment not found"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
