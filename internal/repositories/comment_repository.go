// internal/repositories/comment_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const commentColumns = `id, post_id, author_id, author_username, author_avatar, parent_comment_id,
	text, mentioned_user_ids, like_count, reply_count, is_edited, is_deleted, created_at, updated_at`

// comment_reactions holds one row per (comment, user)
const (
	selectReactionQuery = `SELECT reaction_type FROM comment_reactions WHERE comment_id = $1 AND user_id = $2`
	deleteReactionQuery = `DELETE FROM comment_reactions WHERE comment_id = $1 AND user_id = $2`
	upsertReactionQuery = `INSERT INTO comment_reactions (comment_id, user_id, reaction_type, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (comment_id, user_id) DO UPDATE SET reaction_type = EXCLUDED.reaction_type, created_at = EXCLUDED.created_at`
	loadReactionsQuery = `SELECT comment_id, user_id, reaction_type FROM comment_reactions WHERE comment_id = ANY($1)`
)

// commentRepository implements CommentRepository on PostgreSQL
type commentRepository struct {
	*BaseRepository
	now func() time.Time
}

// NewCommentRepository creates a new PostgreSQL-backed CommentRepository
func NewCommentRepository(db *database.Manager, logger *zap.Logger) CommentRepository {
	return &commentRepository{
		BaseRepository: NewBaseRepository(db, logger),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create inserts a comment, validating and locking the parent for replies
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if comment.ParentCommentID != nil {
			var parentPostID string
			var grandparentID sql.NullString
			var parentDeleted bool

			err := tx.QueryRowContext(ctx,
				`SELECT post_id, parent_comment_id, is_deleted FROM comments WHERE id = $1 FOR UPDATE`,
				*comment.ParentCommentID,
			).Scan(&parentPostID, &grandparentID, &parentDeleted)
			if r.IsNotFound(err) {
				return ErrParentNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to lock parent comment: %w", err)
			}
			if parentPostID != comment.PostID || grandparentID.Valid || parentDeleted {
				return ErrParentNotFound
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO comments (`+commentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			comment.ID, comment.PostID, comment.AuthorID, comment.AuthorUsername,
			comment.AuthorAvatar, comment.ParentCommentID, comment.Text,
			pq.Array(nonNilStrings(comment.MentionedUserIDs)),
			comment.LikeCount, comment.ReplyCount, comment.IsEdited, comment.IsDeleted,
			comment.CreatedAt, comment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		if comment.ParentCommentID != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE comments SET reply_count = reply_count + 1 WHERE id = $1`,
				*comment.ParentCommentID,
			); err != nil {
				return fmt.Errorf("failed to increment reply count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.GetLogger().Debug("Comment stored",
		zap.String("comment_id", comment.ID),
		zap.String("post_id", comment.PostID),
	)
	return nil
}

// GetByID retrieves a comment with its reactions
func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := scanComment(r.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id,
	))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment by ID: %w", err)
	}

	if err := r.loadReactions(ctx, r.GetDB(), []*models.Comment{comment}); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update applies mutate to the locked comment
func (r *commentRepository) Update(ctx context.Context, id string, mutate func(*models.Comment) error) (*models.Comment, error) {
	var updated *models.Comment

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		comment, err := r.lockComment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.loadReactions(ctx, tx, []*models.Comment{comment}); err != nil {
			return err
		}
		if err := mutate(comment); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE comments
			SET text = $2, mentioned_user_ids = $3, is_edited = $4, updated_at = $5
			WHERE id = $1`,
			comment.ID, comment.Text, pq.Array(nonNilStrings(comment.MentionedUserIDs)),
			comment.IsEdited, comment.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}

		updated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes or tombstones a comment according to decide
func (r *commentRepository) Delete(ctx context.Context, id string, decide DeleteDecider) (*models.Comment, models.DeleteOutcome, error) {
	var deleted *models.Comment
	var outcome models.DeleteOutcome

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		comment, err := r.lockComment(ctx, tx, id)
		if err != nil {
			return err
		}
		if comment.IsDeleted {
			return ErrCommentNotFound
		}

		var replies int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM comments WHERE parent_comment_id = $1 AND is_deleted = false`, id,
		).Scan(&replies); err != nil {
			return fmt.Errorf("failed to count replies: %w", err)
		}

		outcome, err = decide(comment, replies)
		if err != nil {
			return err
		}

		switch outcome {
		case models.DeleteOutcomeRemoved:
			if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete comment: %w", err)
			}
			if comment.ParentCommentID != nil {
				if _, err := tx.ExecContext(ctx,
					`UPDATE comments SET reply_count = GREATEST(reply_count - 1, 0) WHERE id = $1`,
					*comment.ParentCommentID,
				); err != nil {
					return fmt.Errorf("failed to decrement reply count: %w", err)
				}
			}

		case models.DeleteOutcomeSoftDeleted:
			comment.Tombstone(r.now())
			comment.ReplyCount = replies
			if _, err := tx.ExecContext(ctx, `DELETE FROM comment_reactions WHERE comment_id = $1`, id); err != nil {
				return fmt.Errorf("failed to clear reactions: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE comments
				SET text = $2, author_username = $2, author_avatar = $2, mentioned_user_ids = '{}',
					like_count = 0, reply_count = $3, is_deleted = true, updated_at = $4
				WHERE id = $1`,
				id, models.DeletedSentinel, replies, comment.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to tombstone comment: %w", err)
			}

		default:
			return fmt.Errorf("unknown delete outcome %q", outcome)
		}

		deleted = comment
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return deleted, outcome, nil
}

// ===============================
// REACTIONS
// ===============================

// MutateReaction reads the user's reaction under a row lock and applies fn
func (r *commentRepository) MutateReaction(ctx context.Context, commentID, userID string, fn models.ReactionMutator) (*models.ReactionResult, error) {
	var result *models.ReactionResult

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		comment, err := r.lockComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if comment.IsDeleted {
			return ErrCommentNotFound
		}

		var current *models.ReactionType
		var raw string
		err = tx.QueryRowContext(ctx,
			selectReactionQuery, commentID, userID,
		).Scan(&raw)
		switch {
		case r.IsNotFound(err):
		case err != nil:
			return fmt.Errorf("failed to read reaction: %w", err)
		default:
			rt := models.ReactionType(raw)
			current = &rt
		}

		next, change := fn(current)

		switch {
		case next == nil && current != nil:
			if _, err := tx.ExecContext(ctx, deleteReactionQuery, commentID, userID); err != nil {
				return fmt.Errorf("failed to remove reaction: %w", err)
			}
		case next != nil && (current == nil || *current != *next):
			if _, err := tx.ExecContext(ctx, upsertReactionQuery,
				commentID, userID, string(*next), r.now(),
			); err != nil {
				return fmt.Errorf("failed to store reaction: %w", err)
			}
		}

		if err := r.loadReactions(ctx, tx, []*models.Comment{comment}); err != nil {
			return err
		}
		comment.RecomputeReactions()

		if change != models.ReactionUnchanged {
			comment.UpdatedAt = r.now()
			if _, err := tx.ExecContext(ctx,
				`UPDATE comments SET like_count = $2, updated_at = $3 WHERE id = $1`,
				commentID, comment.LikeCount, comment.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to update like count: %w", err)
			}
		}

		result = &models.ReactionResult{Comment: comment, UserReaction: next, Change: change}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ===============================
// LISTING OPERATIONS
// ===============================

// ListTopLevel returns one page of a post's top-level comments and the full count
func (r *commentRepository) ListTopLevel(ctx context.Context, postID string, sort models.SortMode, page models.Page) ([]*models.Comment, int, error) {
	var total int
	if err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1 AND parent_comment_id IS NULL`, postID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE post_id = $1 AND parent_comment_id IS NULL
		ORDER BY %s
		LIMIT $2 OFFSET $3`, commentColumns, orderByClause(sort))

	comments, err := r.queryComments(ctx, query, postID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// ListReplies returns every reply of a parent comment
func (r *commentRepository) ListReplies(ctx context.Context, parentID string, sort models.SortMode) ([]*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE parent_comment_id = $1
		ORDER BY %s`, commentColumns, orderByClause(sort))

	comments, err := r.queryComments(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return comments, nil
}

// Health checks database connectivity
func (r *commentRepository) Health(ctx context.Context) error {
	return r.Ping(ctx)
}

// ===============================
// HELPERS
// ===============================

func (r *commentRepository) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadReactions(ctx, r.GetDB(), comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// lockComment selects a comment row FOR UPDATE inside tx
func (r *commentRepository) lockComment(ctx context.Context, tx *sql.Tx, id string) (*models.Comment, error) {
	comment, err := scanComment(tx.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1 FOR UPDATE`, id,
	))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to lock comment: %w", err)
	}
	return comment, nil
}

// loadReactions batch-loads reactions for comments in a single query
func (r *commentRepository) loadReactions(ctx context.Context, q querier, comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]string, len(comments))
	byID := make(map[string]*models.Comment, len(comments))
	for i, comment := range comments {
		ids[i] = comment.ID
		comment.Reactions = map[string]models.ReactionType{}
		byID[comment.ID] = comment
	}

	rows, err := q.QueryContext(ctx, loadReactionsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var commentID, userID, reactionType string
		if err := rows.Scan(&commentID, &userID, &reactionType); err != nil {
			return fmt.Errorf("failed to scan reaction: %w", err)
		}
		if comment, ok := byID[commentID]; ok {
			comment.Reactions[userID] = models.ReactionType(reactionType)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load reactions: %w", err)
	}

	for _, comment := range comments {
		comment.ReactionSummary = models.SummarizeReactions(comment.Reactions)
	}
	return nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var avatar, parentID sql.NullString
	var mentions pq.StringArray

	if err := row.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.AuthorUsername,
		&avatar, &parentID, &comment.Text, &mentions,
		&comment.LikeCount, &comment.ReplyCount, &comment.IsEdited, &comment.IsDeleted,
		&comment.CreatedAt, &comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if avatar.Valid {
		comment.AuthorAvatar = &avatar.String
	}
	if parentID.Valid {
		comment.ParentCommentID = &parentID.String
	}
	comment.MentionedUserIDs = nonNilStrings(mentions)
	return &comment, nil
}

// orderByClause maps a sort mode onto a deterministic ORDER BY
func orderByClause(mode models.SortMode) string {
	switch mode {
	case models.SortMostLiked:
		return "like_count DESC, created_at DESC, id DESC"
	case models.SortMostReplied:
		return "reply_count DESC, created_at DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
