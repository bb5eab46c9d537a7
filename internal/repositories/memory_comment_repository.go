package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialfeed/internal/models"

	"go.uber.org/zap"
)

// memoryCommentRepository implements CommentRepository in process memory.
// A single mutex serializes every mutation.
type memoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*models.Comment
	logger   *zap.Logger
	now      func() time.Time
}

// NewMemoryCommentRepository creates an empty in-memory comment store
func NewMemoryCommentRepository(logger *zap.Logger) CommentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoryCommentRepository{
		comments: make(map[string]*models.Comment),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a copy of the comment
func (r *memoryCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[comment.ID]; exists {
		return fmt.Errorf("failed to create comment: duplicate id %s", comment.ID)
	}

	var parent *models.Comment
	if comment.ParentCommentID != nil {
		parent = r.comments[*comment.ParentCommentID]
		if parent == nil || parent.IsDeleted || !parent.IsTopLevel() || parent.PostID != comment.PostID {
			return ErrParentNotFound
		}
	}

	stored := comment.Clone()
	if stored.Reactions == nil {
		stored.Reactions = map[string]models.ReactionType{}
	}
	stored.RecomputeReactions()
	r.comments[stored.ID] = stored

	if parent != nil {
		parent.ReplyCount++
	}
	return nil
}

// GetByID returns a copy of the comment or nil when absent
func (r *memoryCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	return comment.Clone(), nil
}

// ListTopLevel returns one sorted page of a post's top-level comments
func (r *memoryCommentRepository) ListTopLevel(ctx context.Context, postID string, sort models.SortMode, page models.Page) ([]*models.Comment, int, error) {
	r.mu.RLock()
	matched := []*models.Comment{}
	for _, comment := range r.comments {
		if comment.PostID == postID && comment.IsTopLevel() {
			matched = append(matched, comment.Clone())
		}
	}
	r.mu.RUnlock()

	models.SortComments(matched, sort)
	return page.Slice(matched), len(matched), nil
}

// ListReplies returns every reply of a parent, sorted
func (r *memoryCommentRepository) ListReplies(ctx context.Context, parentID string, sort models.SortMode) ([]*models.Comment, error) {
	r.mu.RLock()
	replies := []*models.Comment{}
	for _, comment := range r.comments {
		if comment.ParentCommentID != nil && *comment.ParentCommentID == parentID {
			replies = append(replies, comment.Clone())
		}
	}
	r.mu.RUnlock()

	models.SortComments(replies, sort)
	return replies, nil
}

// Update mutates a working copy and commits it only when mutate succeeds
func (r *memoryCommentRepository) Update(ctx context.Context, id string, mutate func(*models.Comment) error) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}

	working := stored.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}

	stored.Text = working.Text
	stored.MentionedUserIDs = append([]string{}, working.MentionedUserIDs...)
	stored.IsEdited = working.IsEdited
	stored.UpdatedAt = working.UpdatedAt
	return stored.Clone(), nil
}

// MutateReaction applies fn to the user's current reaction
func (r *memoryCommentRepository) MutateReaction(ctx context.Context, commentID, userID string, fn models.ReactionMutator) (*models.ReactionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.comments[commentID]
	if !ok || stored.IsDeleted {
		return nil, ErrCommentNotFound
	}

	var current *models.ReactionType
	if rt, ok := stored.Reactions[userID]; ok {
		current = &rt
	}

	next, change := fn(current)
	if next == nil {
		delete(stored.Reactions, userID)
	} else {
		stored.Reactions[userID] = *next
	}
	stored.RecomputeReactions()
	if change != models.ReactionUnchanged {
		stored.UpdatedAt = r.now()
	}

	return &models.ReactionResult{Comment: stored.Clone(), UserReaction: next, Change: change}, nil
}

// Delete removes or tombstones a comment according to decide
func (r *memoryCommentRepository) Delete(ctx context.Context, id string, decide DeleteDecider) (*models.Comment, models.DeleteOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.comments[id]
	if !ok || stored.IsDeleted {
		return nil, "", ErrCommentNotFound
	}

	replies := 0
	for _, comment := range r.comments {
		if comment.ParentCommentID != nil && *comment.ParentCommentID == id && !comment.IsDeleted {
			replies++
		}
	}

	outcome, err := decide(stored.Clone(), replies)
	if err != nil {
		return nil, "", err
	}

	switch outcome {
	case models.DeleteOutcomeRemoved:
		delete(r.comments, id)
		if stored.ParentCommentID != nil {
			if parent, ok := r.comments[*stored.ParentCommentID]; ok && parent.ReplyCount > 0 {
				parent.ReplyCount--
			}
		}
		return stored.Clone(), outcome, nil

	case models.DeleteOutcomeSoftDeleted:
		stored.Tombstone(r.now())
		stored.ReplyCount = replies
		return stored.Clone(), outcome, nil

	default:
		return nil, "", fmt.Errorf("unknown delete outcome %q", outcome)
	}
}

// Health always succeeds for the in-memory store
func (r *memoryCommentRepository) Health(ctx context.Context) error {
	return nil
}
