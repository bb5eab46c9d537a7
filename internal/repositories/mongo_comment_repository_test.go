package repositories

import (
	"context"
	"testing"
	"time"

	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func newMockMongoStore(mt *mtest.T) *database.MongoStore {
	return &database.MongoStore{
		Client:        mt.Client,
		Comments:      mt.Coll,
		Users:         mt.Coll,
		Posts:         mt.Coll,
		Notifications: mt.Coll,
	}
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func commentBSON(id string, version int64, replies int, deleted bool, reactions bson.D) bson.D {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if reactions == nil {
		reactions = bson.D{}
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "post_id", Value: "p-1"},
		{Key: "author_id", Value: "u-1"},
		{Key: "author_username", Value: "alice"},
		{Key: "author_avatar", Value: nil},
		{Key: "parent_comment_id", Value: nil},
		{Key: "text", Value: "hello"},
		{Key: "mentioned_user_ids", Value: bson.A{}},
		{Key: "reactions", Value: reactions},
		{Key: "like_count", Value: len(reactions)},
		{Key: "reply_count", Value: replies},
		{Key: "is_edited", Value: false},
		{Key: "is_deleted", Value: deleted},
		{Key: "created_at", Value: ts},
		{Key: "updated_at", Value: ts},
		{Key: "version", Value: version},
	}
}

// findResponse answers one FindOne with doc
func findResponse(mt *mtest.T, doc bson.D) bson.D {
	return mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, doc)
}

// matchedResponse answers an update or replace that matched n documents
func matchedResponse(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// updateFilterVersions returns the version each update command was conditioned on
func updateFilterVersions(mt *mtest.T) []int64 {
	var versions []int64
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName != "update" {
			continue
		}
		version, err := evt.Command.LookupErr("updates", "0", "q", "version")
		if err != nil {
			continue
		}
		versions = append(versions, version.AsInt64())
	}
	return versions
}

func addLove(current *models.ReactionType) (*models.ReactionType, models.ReactionChange) {
	love := models.ReactionLove
	return &love, models.ReactionAdded
}

func TestMongoCommentRepository_MutateReaction(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("retries a version conflict and then succeeds", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(
			findResponse(mt, commentBSON("c-1", 1, 0, false, nil)),
			matchedResponse(0),
			findResponse(mt, commentBSON("c-1", 2, 0, false, bson.D{{Key: "u-3", Value: "like"}})),
			matchedResponse(1),
		)

		result, err := repo.MutateReaction(context.Background(), "c-1", "u-2", addLove)
		require.NoError(mt, err)
		assert.Equal(mt, models.ReactionAdded, result.Change)
		assert.Equal(mt, 2, result.Comment.LikeCount)
		assert.Equal(mt, models.ReactionLove, result.Comment.Reactions["u-2"])
		assert.Equal(mt, models.ReactionLike, result.Comment.Reactions["u-3"])
		assert.Equal(mt, []int64{1, 2}, updateFilterVersions(mt))
	})

	mt.Run("tombstone is not found", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(findResponse(mt, commentBSON("c-1", 4, 2, true, nil)))

		_, err := repo.MutateReaction(context.Background(), "c-1", "u-2", func(current *models.ReactionType) (*models.ReactionType, models.ReactionChange) {
			mt.Fatal("mutator must not run on a tombstone")
			return nil, models.ReactionUnchanged
		})
		assert.ErrorIs(mt, err, ErrCommentNotFound)
		assert.Empty(mt, updateFilterVersions(mt))
	})

	mt.Run("missing comment", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.MutateReaction(context.Background(), "c-404", "u-2", addLove)
		assert.ErrorIs(mt, err, ErrCommentNotFound)
	})
}

func TestMongoCommentRepository_UpdateGivesUpAfterRepeatedConflicts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("concurrent update", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		for i := 0; i < maxOptimisticAttempts; i++ {
			mt.AddMockResponses(
				findResponse(mt, commentBSON("c-1", int64(i), 0, false, nil)),
				matchedResponse(0),
			)
		}

		calls := 0
		_, err := repo.Update(context.Background(), "c-1", func(c *models.Comment) error {
			calls++
			c.Text = "edited"
			c.IsEdited = true
			return nil
		})
		assert.ErrorIs(mt, err, ErrConcurrentUpdate)
		assert.Equal(mt, maxOptimisticAttempts, calls)
		assert.Len(mt, updateFilterVersions(mt), maxOptimisticAttempts)
	})
}

func TestMongoCommentRepository_CreateReply(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	reply := func() *models.Comment {
		return &models.Comment{
			ID: "c-2", PostID: "p-1", AuthorID: "u-2", AuthorUsername: "bob",
			ParentCommentID: strPtr("c-1"), Text: "reply",
			CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
		}
	}

	mt.Run("parent not matched", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(matchedResponse(0))

		err := repo.Create(context.Background(), reply())
		assert.ErrorIs(mt, err, ErrParentNotFound)

		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotEqual(mt, "insert", evt.CommandName)
		}
	})

	mt.Run("parent matched", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(matchedResponse(1), mtest.CreateSuccessResponse())

		require.NoError(mt, repo.Create(context.Background(), reply()))

		started := mt.GetAllStartedEvents()
		require.Len(mt, started, 2)
		assert.Equal(mt, "update", started[0].CommandName)
		assert.Equal(mt, "insert", started[1].CommandName)
	})
}

func TestMongoCommentRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("hard delete retries when the version moved", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(
			findResponse(mt, commentBSON("c-1", 1, 0, false, nil)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			findResponse(mt, commentBSON("c-1", 2, 0, false, nil)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		deleted, outcome, err := repo.Delete(context.Background(), "c-1", func(c *models.Comment, replies int) (models.DeleteOutcome, error) {
			return models.DeleteOutcomeRemoved, nil
		})
		require.NoError(mt, err)
		assert.Equal(mt, models.DeleteOutcomeRemoved, outcome)
		assert.Equal(mt, "c-1", deleted.ID)
	})

	mt.Run("replies force a tombstone", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(
			findResponse(mt, commentBSON("c-1", 3, 2, false, bson.D{{Key: "u-2", Value: "like"}})),
			matchedResponse(1),
		)

		var seenReplies int
		deleted, outcome, err := repo.Delete(context.Background(), "c-1", func(c *models.Comment, replies int) (models.DeleteOutcome, error) {
			seenReplies = replies
			return models.DeleteOutcomeSoftDeleted, nil
		})
		require.NoError(mt, err)
		assert.Equal(mt, 2, seenReplies)
		assert.Equal(mt, models.DeleteOutcomeSoftDeleted, outcome)
		assert.True(mt, deleted.IsDeleted)
		assert.Zero(mt, deleted.LikeCount)
		assert.Equal(mt, []int64{3}, updateFilterVersions(mt))
	})

	mt.Run("already tombstoned", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(newMockMongoStore(mt), zap.NewNop())
		mt.AddMockResponses(findResponse(mt, commentBSON("c-1", 5, 1, true, nil)))

		_, _, err := repo.Delete(context.Background(), "c-1", func(c *models.Comment, replies int) (models.DeleteOutcome, error) {
			mt.Fatal("decider must not run on a tombstone")
			return "", nil
		})
		assert.ErrorIs(mt, err, ErrCommentNotFound)
	})
}

func TestMongoDirectories(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("resolve handle", func(mt *mtest.T) {
		users := NewMongoUserDirectory(newMockMongoStore(mt))
		mt.AddMockResponses(
			findResponse(mt, bson.D{{Key: "_id", Value: "u-2"}, {Key: "username", Value: "bob"}}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		id, ok, err := users.ResolveByHandle(context.Background(), "bob")
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, "u-2", id)

		_, ok, err = users.ResolveByHandle(context.Background(), "ghost")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("profile", func(mt *mtest.T) {
		users := NewMongoUserDirectory(newMockMongoStore(mt))
		mt.AddMockResponses(
			findResponse(mt, bson.D{{Key: "_id", Value: "u-2"}, {Key: "username", Value: "bob"}, {Key: "avatar", Value: "avatars/bob"}}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		profile, err := users.GetProfile(context.Background(), "u-2")
		require.NoError(mt, err)
		require.NotNil(mt, profile)
		assert.Equal(mt, "bob", profile.Username)
		require.NotNil(mt, profile.Avatar)
		assert.Equal(mt, "avatars/bob", *profile.Avatar)

		missing, err := users.GetProfile(context.Background(), "u-404")
		require.NoError(mt, err)
		assert.Nil(mt, missing)
	})

	mt.Run("user exists", func(mt *mtest.T) {
		users := NewMongoUserDirectory(newMockMongoStore(mt))
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		exists, err := users.Exists(context.Background(), "u-2")
		require.NoError(mt, err)
		assert.True(mt, exists)

		exists, err = users.Exists(context.Background(), "u-404")
		require.NoError(mt, err)
		assert.False(mt, exists)
	})

	mt.Run("post author", func(mt *mtest.T) {
		posts := NewMongoPostDirectory(newMockMongoStore(mt))
		mt.AddMockResponses(findResponse(mt, bson.D{{Key: "_id", Value: "p-1"}, {Key: "author_id", Value: "u-1"}}))

		authorID, ok, err := posts.Exists(context.Background(), "p-1")
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, "u-1", authorID)
	})
}

func TestMongoNotificationRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	notification := &models.Notification{
		ID: "n-1", UserID: "u-1", ActorID: "u-2", ActorUsername: "bob",
		Type: models.NotificationTypeComment, PostID: "p-1", CommentID: "c-1",
		Text: "bob commented on your post", CreatedAt: time.Now().UTC(),
	}

	mt.Run("duplicate id is ignored", func(mt *mtest.T) {
		sink := NewMongoNotificationRepository(newMockMongoStore(mt))
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		assert.NoError(mt, sink.Create(context.Background(), notification))
	})

	mt.Run("other write errors surface", func(mt *mtest.T) {
		sink := NewMongoNotificationRepository(newMockMongoStore(mt))
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 121, Message: "Document failed validation",
		}))

		assert.Error(mt, sink.Create(context.Background(), notification))
	})
}
