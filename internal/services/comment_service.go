// ===============================
// FILE: internal/services/comment_service.go
// ===============================

package services

import (
	"context"
	"errors"
	"time"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"go.uber.org/zap"
)

// commentService implements CommentService
type commentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostDirectory
	users    repositories.UserDirectory
	mentions *MentionResolver
	notifier *NotificationDispatcher
	avatars  AvatarResolver
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewCommentService creates a new comment service
func NewCommentService(
	comments repositories.CommentRepository,
	posts repositories.PostDirectory,
	users repositories.UserDirectory,
	mentions *MentionResolver,
	notifier *NotificationDispatcher,
	avatars AvatarResolver,
	logger *zap.Logger,
) CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commentService{
		comments: comments,
		posts:    posts,
		users:    users,
		mentions: mentions,
		notifier: notifier,
		avatars:  avatars,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newID,
	}
}

// ===============================
// CORE CRUD OPERATIONS
// ===============================

// CreateComment creates a top-level comment or a reply
func (s *commentService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error) {
	logger := contextutils.GetLogger(ctx, s.logger)

	text := models.NormalizeCommentText(req.Text)
	if req.PostID == "" || text == "" {
		return nil, NewValidationError(MsgPostAndTextRequired, nil)
	}
	if models.CommentLength(text) > models.MaxCommentLength {
		return nil, NewValidationError(MsgTextTooLong, nil)
	}

	postAuthorID, ok, err := s.posts.Exists(ctx, req.PostID)
	if err != nil {
		return nil, NewInternalError("failed to look up post", err)
	}
	if !ok {
		return nil, NewNotFoundError(MsgPostNotFound).WithDetail("post_id", req.PostID)
	}

	parentID := req.ParentCommentID
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	var parent *models.Comment
	if parentID != nil {
		parent, err = s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, NewInternalError("failed to look up parent comment", err)
		}
		if parent == nil || parent.IsDeleted || !parent.IsTopLevel() || parent.PostID != req.PostID {
			return nil, NewNotFoundError(MsgParentNotFound).WithDetail("parent_comment_id", *parentID)
		}
	}

	author := s.resolveAuthor(ctx, req.Author)
	now := s.now()

	comment := &models.Comment{
		ID:               s.newID(),
		PostID:           req.PostID,
		AuthorID:         author.ID,
		AuthorUsername:   author.Username,
		AuthorAvatar:     author.Avatar,
		ParentCommentID:  parentID,
		Text:             text,
		MentionedUserIDs: s.mentions.Resolve(ctx, text),
		Reactions:        map[string]models.ReactionType{},
		ReactionSummary:  models.ReactionSummary{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrParentNotFound) {
			return nil, NewNotFoundError(MsgParentNotFound).WithDetail("parent_comment_id", *parentID)
		}
		return nil, NewInternalError("failed to create comment", err)
	}

	if comment.IsTopLevel() {
		s.adjustCommentCount(ctx, comment.PostID, 1)
		s.notifier.Dispatch(ctx, CommentNotification(postAuthorID, author, comment), "comment")
	} else {
		s.notifier.Dispatch(ctx, ReplyNotification(parent.AuthorID, author, comment), "reply")
	}
	s.notifyMentions(ctx, author, comment, comment.MentionedUserIDs)

	logger.Info("Comment created successfully",
		zap.String("comment_id", comment.ID),
		zap.String("post_id", comment.PostID),
		zap.String("user_id", author.ID),
		zap.Bool("is_reply", !comment.IsTopLevel()),
		zap.Int("mentions", len(comment.MentionedUserIDs)),
	)

	return comment.ForViewer(author.ID), nil
}

// EditComment replaces a comment's text and notifies newly mentioned users
func (s *commentService) EditComment(ctx context.Context, req *EditCommentRequest) (*models.Comment, error) {
	logger := contextutils.GetLogger(ctx, s.logger)

	text := models.NormalizeCommentText(req.Text)
	if text == "" {
		return nil, NewValidationError(MsgTextRequired, nil)
	}
	if models.CommentLength(text) > models.MaxCommentLength {
		return nil, NewValidationError(MsgTextTooLong, nil)
	}

	existing, err := s.comments.GetByID(ctx, req.CommentID)
	if err != nil {
		return nil, NewInternalError("failed to get comment", err)
	}
	if err := checkEditable(existing, req); err != nil {
		return nil, err
	}

	mentions := s.mentions.Resolve(ctx, text)

	var previous []string
	updated, err := s.comments.Update(ctx, req.CommentID, func(c *models.Comment) error {
		if err := checkEditable(c, req); err != nil {
			return err
		}
		previous = append([]string(nil), c.MentionedUserIDs...)
		c.Text = text
		c.MentionedUserIDs = mentions
		c.IsEdited = true
		c.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, s.mapStoreError(err, req.CommentID, "failed to update comment")
	}

	added := newMentions(previous, updated.MentionedUserIDs)
	if len(added) > 0 {
		actor := s.resolveAuthor(ctx, models.Author{ID: req.UserID, Username: contextutils.GetUsername(ctx)})
		s.notifyMentions(ctx, actor, updated, added)
	}

	logger.Info("Comment updated successfully",
		zap.String("comment_id", updated.ID),
		zap.String("user_id", req.UserID),
		zap.Int("new_mentions", len(added)),
	)

	return updated.ForViewer(req.UserID), nil
}

// DeleteComment hard-deletes a comment without replies and tombstones one with replies
func (s *commentService) DeleteComment(ctx context.Context, commentID, userID string) (*models.DeleteCommentResponse, error) {
	logger := contextutils.GetLogger(ctx, s.logger)

	comment, outcome, err := s.comments.Delete(ctx, commentID, DecideDelete(userID))
	if err != nil {
		return nil, s.mapStoreError(err, commentID, "failed to delete comment")
	}

	if outcome == models.DeleteOutcomeRemoved && comment.IsTopLevel() {
		s.adjustCommentCount(ctx, comment.PostID, -1)
	}

	logger.Info("Comment deleted successfully",
		zap.String("comment_id", commentID),
		zap.String("user_id", userID),
		zap.String("outcome", string(outcome)),
	)

	return &models.DeleteCommentResponse{Detail: MsgCommentDeleted, Outcome: outcome}, nil
}

// ===============================
// LISTING OPERATIONS
// ===============================

// ListTopLevel returns a sorted page of a post's top-level comments
func (s *commentService) ListTopLevel(ctx context.Context, req *ListCommentsRequest) (*models.CommentListResponse, error) {
	page := models.NormalizePage(req.Limit, req.Offset)
	mode := models.ParseSortMode(req.Sort)

	comments, total, err := s.comments.ListTopLevel(ctx, req.PostID, mode, page)
	if err != nil {
		return nil, NewInternalError("failed to list comments", err)
	}

	for _, c := range comments {
		c.ForViewer(req.ViewerID)
	}

	return &models.CommentListResponse{
		Comments: comments,
		Total:    total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}, nil
}

// ListReplies returns every reply of a comment; an unknown parent yields an empty list
func (s *commentService) ListReplies(ctx context.Context, req *ListRepliesRequest) (*models.ReplyListResponse, error) {
	replies, err := s.comments.ListReplies(ctx, req.ParentCommentID, models.ParseSortMode(req.Sort))
	if err != nil {
		return nil, NewInternalError("failed to list replies", err)
	}

	for _, c := range replies {
		c.ForViewer(req.ViewerID)
	}
	return &models.ReplyListResponse{Replies: replies}, nil
}

// ===============================
// REACTIONS
// ===============================

// React toggles or replaces the caller's reaction
func (s *commentService) React(ctx context.Context, req *ReactionRequest) (*models.ReactionResponse, error) {
	reaction, ok := models.ParseReactionType(req.ReactionType)
	if !ok {
		return nil, InvalidReactionError(req.ReactionType)
	}

	result, err := s.comments.MutateReaction(ctx, req.CommentID, req.Actor.ID, ToggleReaction(reaction))
	if err != nil {
		return nil, s.mapStoreError(err, req.CommentID, "failed to react to comment")
	}

	if result.Change.Notifies() && result.Comment.AuthorID != req.Actor.ID {
		actor := s.resolveAuthor(ctx, req.Actor)
		s.notifier.Dispatch(ctx, ReactionNotification(result.Comment.AuthorID, actor, result.Comment, reaction), "reaction")
	}

	contextutils.GetLogger(ctx, s.logger).Debug("Comment reaction applied",
		zap.String("comment_id", req.CommentID),
		zap.String("user_id", req.Actor.ID),
		zap.String("reaction_type", string(reaction)),
		zap.String("change", string(result.Change)),
	)

	return reactionResponse(result), nil
}

// Unreact removes the caller's reaction when it matches the given type
func (s *commentService) Unreact(ctx context.Context, req *ReactionRequest) (*models.ReactionResponse, error) {
	reaction, ok := models.ParseReactionType(req.ReactionType)
	if !ok {
		return nil, InvalidReactionError(req.ReactionType)
	}

	result, err := s.comments.MutateReaction(ctx, req.CommentID, req.Actor.ID, RemoveReaction(reaction))
	if err != nil {
		return nil, s.mapStoreError(err, req.CommentID, "failed to remove reaction")
	}
	return reactionResponse(result), nil
}

// Like is React fixed to the like reaction
func (s *commentService) Like(ctx context.Context, commentID string, actor models.Author) (*models.ReactionResponse, error) {
	return s.React(ctx, &ReactionRequest{CommentID: commentID, ReactionType: string(models.ReactionLike), Actor: actor})
}

// Unlike is Unreact fixed to the like reaction
func (s *commentService) Unlike(ctx context.Context, commentID string, actor models.Author) (*models.ReactionResponse, error) {
	return s.Unreact(ctx, &ReactionRequest{CommentID: commentID, ReactionType: string(models.ReactionLike), Actor: actor})
}

// ===============================
// HELPERS
// ===============================

// checkEditable rejects edits of missing, tombstoned or foreign comments
func checkEditable(c *models.Comment, req *EditCommentRequest) error {
	if c == nil || c.IsDeleted {
		return CommentNotFoundError(req.CommentID)
	}
	if c.AuthorID != req.UserID {
		return NewForbiddenError(MsgEditForbidden)
	}
	return nil
}

// resolveAuthor prefers the stored profile over the token claims
func (s *commentService) resolveAuthor(ctx context.Context, claimed models.Author) models.Author {
	author := claimed

	profile, err := s.users.GetProfile(ctx, claimed.ID)
	if err != nil {
		contextutils.GetLogger(ctx, s.logger).Warn("Failed to load author profile",
			zap.String("user_id", claimed.ID),
			zap.Error(err),
		)
	} else if profile != nil {
		author = profile.AsAuthor()
	}

	if s.avatars != nil {
		author.Avatar = s.avatars.Thumbnail(author.Avatar)
	}
	return author
}

// notifyMentions notifies each mentioned user except the actor
func (s *commentService) notifyMentions(ctx context.Context, actor models.Author, comment *models.Comment, userIDs []string) {
	for _, userID := range userIDs {
		if userID == actor.ID {
			continue
		}
		s.notifier.Dispatch(ctx, MentionNotification(userID, actor, comment), "mention")
	}
}

// adjustCommentCount updates the post counter; failures are logged only
func (s *commentService) adjustCommentCount(ctx context.Context, postID string, delta int) {
	if err := s.posts.AdjustCommentCount(ctx, postID, delta); err != nil {
		contextutils.GetLogger(ctx, s.logger).Warn("Failed to adjust post comment count",
			zap.String("post_id", postID),
			zap.Int("delta", delta),
			zap.Error(err),
		)
	}
}

// mapStoreError converts repository sentinels into service errors
func (s *commentService) mapStoreError(err error, commentID, message string) error {
	var serviceErr *ServiceError
	switch {
	case errors.As(err, &serviceErr):
		return serviceErr
	case errors.Is(err, repositories.ErrCommentNotFound):
		return CommentNotFoundError(commentID)
	default:
		return NewInternalError(message, err)
	}
}

func reactionResponse(result *models.ReactionResult) *models.ReactionResponse {
	summary := result.Comment.ReactionSummary
	if summary == nil {
		summary = models.ReactionSummary{}
	}
	return &models.ReactionResponse{
		CommentID:       result.Comment.ID,
		UserReaction:    result.UserReaction,
		ReactionSummary: summary,
		LikeCount:       result.Comment.LikeCount,
		HasLiked:        result.UserReaction != nil,
	}
}
