package models

import "time"

// Notification types emitted by the comment engine
const (
	NotificationTypeComment      = "comment"
	NotificationTypeCommentReply = "comment_reply"
	NotificationTypeCommentLike  = "comment_like"
)

// Notification is the payload handed to the notification store
type Notification struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	ActorID       string    `json:"actor_id" db:"actor_id"`
	ActorUsername string    `json:"actor_username" db:"actor_username"`
	ActorAvatar   *string   `json:"actor_avatar" db:"actor_avatar"`
	Type          string    `json:"type" db:"type"`
	PostID        string    `json:"post_id" db:"post_id"`
	CommentID     string    `json:"comment_id" db:"comment_id"`
	Text          string    `json:"text" db:"text"`
	Read          bool      `json:"read" db:"read"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// UserProfile is the identity view returned by the user collaborator
type UserProfile struct {
	ID       string  `json:"id" db:"id"`
	Username string  `json:"username" db:"username"`
	Avatar   *string `json:"avatar" db:"avatar"`
}

// AsAuthor converts a profile into a comment author snapshot
func (p *UserProfile) AsAuthor() Author {
	return Author{ID: p.ID, Username: p.Username, Avatar: p.Avatar}
}
