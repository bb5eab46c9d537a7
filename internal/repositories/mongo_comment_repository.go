package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// maxOptimisticAttempts bounds compare-and-swap retries on a single comment
const maxOptimisticAttempts = 8

// commentDocument represents comment data in MongoDB
type commentDocument struct {
	ID               string            `bson:"_id"`
	PostID           string            `bson:"post_id"`
	AuthorID         string            `bson:"author_id"`
	AuthorUsername   string            `bson:"author_username"`
	AuthorAvatar     *string           `bson:"author_avatar"`
	ParentCommentID  *string           `bson:"parent_comment_id"`
	Text             string            `bson:"text"`
	MentionedUserIDs []string          `bson:"mentioned_user_ids"`
	Reactions        map[string]string `bson:"reactions"`
	LikeCount        int               `bson:"like_count"`
	ReplyCount       int               `bson:"reply_count"`
	IsEdited         bool              `bson:"is_edited"`
	IsDeleted        bool              `bson:"is_deleted"`
	CreatedAt        time.Time         `bson:"created_at"`
	UpdatedAt        time.Time         `bson:"updated_at"`
	Version          int64             `bson:"version"`
}

// mongoCommentRepository implements CommentRepository on MongoDB using a
// version field for optimistic concurrency
type mongoCommentRepository struct {
	store    *database.MongoStore
	comments *mongo.Collection
	logger   *zap.Logger
	now      func() time.Time
}

// NewMongoCommentRepository creates a MongoDB-backed CommentRepository
func NewMongoCommentRepository(store *database.MongoStore, logger *zap.Logger) CommentRepository {
	return &mongoCommentRepository{
		store:    store,
		comments: store.Comments,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a comment. For replies the parent's reply_count is bumped with
// a conditional update first, so a concurrent delete of the parent observes it.
func (r *mongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ParentCommentID != nil {
		res, err := r.comments.UpdateOne(ctx,
			bson.M{
				"_id":               *comment.ParentCommentID,
				"post_id":           comment.PostID,
				"parent_comment_id": nil,
				"is_deleted":        false,
			},
			bson.M{"$inc": bson.M{"reply_count": 1, "version": 1}},
		)
		if err != nil {
			return fmt.Errorf("failed to update parent comment: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrParentNotFound
		}
	}

	if _, err := r.comments.InsertOne(ctx, toCommentDocument(comment)); err != nil {
		if comment.ParentCommentID != nil {
			r.decrementReplies(ctx, *comment.ParentCommentID)
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *mongoCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	doc, err := r.find(ctx, id)
	if errors.Is(err, ErrCommentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// ListTopLevel returns one page of a post's top-level comments and the full count
func (r *mongoCommentRepository) ListTopLevel(ctx context.Context, postID string, sort models.SortMode, page models.Page) ([]*models.Comment, int, error) {
	filter := bson.M{"post_id": postID, "parent_comment_id": nil}

	total, err := r.comments.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	opts := options.Find().
		SetSort(sortDocument(sort)).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))

	comments, err := r.findMany(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, int(total), nil
}

// ListReplies returns every reply of a parent comment
func (r *mongoCommentRepository) ListReplies(ctx context.Context, parentID string, sort models.SortMode) ([]*models.Comment, error) {
	comments, err := r.findMany(ctx, bson.M{"parent_comment_id": parentID}, options.Find().SetSort(sortDocument(sort)))
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return comments, nil
}

// Update applies mutate and swaps the document in if the version still matches
func (r *mongoCommentRepository) Update(ctx context.Context, id string, mutate func(*models.Comment) error) (*models.Comment, error) {
	doc, err := r.compareAndSwap(ctx, id, func(doc *commentDocument) error {
		comment := doc.toModel()
		if err := mutate(comment); err != nil {
			return err
		}
		doc.Text = comment.Text
		doc.MentionedUserIDs = nonNilStrings(comment.MentionedUserIDs)
		doc.IsEdited = comment.IsEdited
		doc.UpdatedAt = comment.UpdatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// MutateReaction applies fn to the user's current reaction on a live comment
func (r *mongoCommentRepository) MutateReaction(ctx context.Context, commentID, userID string, fn models.ReactionMutator) (*models.ReactionResult, error) {
	var next *models.ReactionType
	var change models.ReactionChange

	doc, err := r.compareAndSwap(ctx, commentID, func(doc *commentDocument) error {
		if doc.IsDeleted {
			return ErrCommentNotFound
		}

		var current *models.ReactionType
		if raw, ok := doc.Reactions[userID]; ok {
			rt := models.ReactionType(raw)
			current = &rt
		}

		next, change = fn(current)
		if doc.Reactions == nil {
			doc.Reactions = map[string]string{}
		}
		if next == nil {
			delete(doc.Reactions, userID)
		} else {
			doc.Reactions[userID] = string(*next)
		}
		doc.LikeCount = len(doc.Reactions)
		if change != models.ReactionUnchanged {
			doc.UpdatedAt = r.now()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.ReactionResult{Comment: doc.toModel(), UserReaction: next, Change: change}, nil
}

// Delete removes or tombstones a comment. A hard delete is conditional on the
// version read, so a reply created in between forces a re-evaluation.
func (r *mongoCommentRepository) Delete(ctx context.Context, id string, decide DeleteDecider) (*models.Comment, models.DeleteOutcome, error) {
	for attempt := 0; attempt < maxOptimisticAttempts; attempt++ {
		doc, err := r.find(ctx, id)
		if err != nil {
			return nil, "", err
		}
		if doc.IsDeleted {
			return nil, "", ErrCommentNotFound
		}

		comment := doc.toModel()
		outcome, err := decide(comment, doc.ReplyCount)
		if err != nil {
			return nil, "", err
		}

		switch outcome {
		case models.DeleteOutcomeRemoved:
			res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id, "version": doc.Version})
			if err != nil {
				return nil, "", fmt.Errorf("failed to delete comment: %w", err)
			}
			if res.DeletedCount == 0 {
				continue
			}
			if doc.ParentCommentID != nil {
				r.decrementReplies(ctx, *doc.ParentCommentID)
			}
			return comment, outcome, nil

		case models.DeleteOutcomeSoftDeleted:
			comment.Tombstone(r.now())
			tombstone := toCommentDocument(comment)
			tombstone.Version = doc.Version + 1

			res, err := r.comments.ReplaceOne(ctx, bson.M{"_id": id, "version": doc.Version}, tombstone)
			if err != nil {
				return nil, "", fmt.Errorf("failed to tombstone comment: %w", err)
			}
			if res.MatchedCount == 0 {
				continue
			}
			return comment, outcome, nil

		default:
			return nil, "", fmt.Errorf("unknown delete outcome %q", outcome)
		}
	}
	return nil, "", ErrConcurrentUpdate
}

// Health checks MongoDB connectivity
func (r *mongoCommentRepository) Health(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// ===============================
// HELPERS
// ===============================

// compareAndSwap re-reads and re-applies fn until the versioned replace wins
func (r *mongoCommentRepository) compareAndSwap(ctx context.Context, id string, fn func(*commentDocument) error) (*commentDocument, error) {
	for attempt := 0; attempt < maxOptimisticAttempts; attempt++ {
		doc, err := r.find(ctx, id)
		if err != nil {
			return nil, err
		}

		expected := doc.Version
		if err := fn(doc); err != nil {
			return nil, err
		}
		doc.Version = expected + 1

		res, err := r.comments.ReplaceOne(ctx, bson.M{"_id": id, "version": expected}, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to update comment: %w", err)
		}
		if res.MatchedCount == 1 {
			return doc, nil
		}

		r.logger.Debug("Optimistic update conflict, retrying",
			zap.String("comment_id", id),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, ErrConcurrentUpdate
}

func (r *mongoCommentRepository) find(ctx context.Context, id string) (*commentDocument, error) {
	var doc commentDocument
	err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &doc, nil
}

func (r *mongoCommentRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Comment, error) {
	cursor, err := r.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []*models.Comment{}
	for cursor.Next(ctx) {
		var doc commentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %w", err)
		}
		comments = append(comments, doc.toModel())
	}
	return comments, cursor.Err()
}

func (r *mongoCommentRepository) decrementReplies(ctx context.Context, parentID string) {
	_, err := r.comments.UpdateOne(ctx,
		bson.M{"_id": parentID, "reply_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"reply_count": -1, "version": 1}},
	)
	if err != nil {
		r.logger.Error("Failed to decrement reply count",
			zap.String("parent_comment_id", parentID),
			zap.Error(err),
		)
	}
}

// sortDocument mirrors orderByClause for MongoDB
func sortDocument(mode models.SortMode) bson.D {
	switch mode {
	case models.SortMostLiked:
		return bson.D{{Key: "like_count", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	case models.SortMostReplied:
		return bson.D{{Key: "reply_count", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func toCommentDocument(c *models.Comment) *commentDocument {
	reactions := make(map[string]string, len(c.Reactions))
	for userID, rt := range c.Reactions {
		reactions[userID] = string(rt)
	}
	return &commentDocument{
		ID:               c.ID,
		PostID:           c.PostID,
		AuthorID:         c.AuthorID,
		AuthorUsername:   c.AuthorUsername,
		AuthorAvatar:     c.AuthorAvatar,
		ParentCommentID:  c.ParentCommentID,
		Text:             c.Text,
		MentionedUserIDs: nonNilStrings(c.MentionedUserIDs),
		Reactions:        reactions,
		LikeCount:        len(reactions),
		ReplyCount:       c.ReplyCount,
		IsEdited:         c.IsEdited,
		IsDeleted:        c.IsDeleted,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (d *commentDocument) toModel() *models.Comment {
	comment := &models.Comment{
		ID:               d.ID,
		PostID:           d.PostID,
		AuthorID:         d.AuthorID,
		AuthorUsername:   d.AuthorUsername,
		AuthorAvatar:     d.AuthorAvatar,
		ParentCommentID:  d.ParentCommentID,
		Text:             d.Text,
		MentionedUserIDs: nonNilStrings(d.MentionedUserIDs),
		Reactions:        make(map[string]models.ReactionType, len(d.Reactions)),
		ReplyCount:       d.ReplyCount,
		IsEdited:         d.IsEdited,
		IsDeleted:        d.IsDeleted,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	for userID, rt := range d.Reactions {
		comment.Reactions[userID] = models.ReactionType(rt)
	}
	comment.RecomputeReactions()
	return comment
}
