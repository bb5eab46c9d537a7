package repositories

import (
	"context"
	"errors"
	"fmt"

	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postDocument struct {
	ID           string `bson:"_id"`
	AuthorID     string `bson:"author_id"`
	CommentCount int    `bson:"comment_count"`
}

type userDocument struct {
	ID       string  `bson:"_id"`
	Username string  `bson:"username"`
	Avatar   *string `bson:"avatar"`
}

// mongoPostDirectory implements PostDirectory over the posts collection
type mongoPostDirectory struct {
	posts *mongo.Collection
}

// NewMongoPostDirectory creates a MongoDB-backed PostDirectory
func NewMongoPostDirectory(store *database.MongoStore) PostDirectory {
	return &mongoPostDirectory{posts: store.Posts}
}

func (d *mongoPostDirectory) Exists(ctx context.Context, postID string) (string, bool, error) {
	var doc postDocument
	opts := options.FindOne().SetProjection(bson.M{"author_id": 1})
	err := d.posts.FindOne(ctx, bson.M{"_id": postID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get post: %w", err)
	}
	return doc.AuthorID, true, nil
}

func (d *mongoPostDirectory) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	filter := bson.M{"_id": postID}
	if delta < 0 {
		filter["comment_count"] = bson.M{"$gte": -delta}
	}
	if _, err := d.posts.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"comment_count": delta}}); err != nil {
		return fmt.Errorf("failed to adjust comment count: %w", err)
	}
	return nil
}

// mongoUserDirectory implements UserDirectory over the users collection
type mongoUserDirectory struct {
	users *mongo.Collection
}

// NewMongoUserDirectory creates a MongoDB-backed UserDirectory
func NewMongoUserDirectory(store *database.MongoStore) UserDirectory {
	return &mongoUserDirectory{users: store.Users}
}

func (d *mongoUserDirectory) ResolveByHandle(ctx context.Context, handle string) (string, bool, error) {
	doc, err := d.findOne(ctx, bson.M{"username": handle})
	if err != nil || doc == nil {
		return "", false, err
	}
	return doc.ID, true, nil
}

func (d *mongoUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	count, err := d.users.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func (d *mongoUserDirectory) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := d.findOne(ctx, bson.M{"_id": userID})
	if err != nil || doc == nil {
		return nil, err
	}
	return &models.UserProfile{ID: doc.ID, Username: doc.Username, Avatar: doc.Avatar}, nil
}

func (d *mongoUserDirectory) findOne(ctx context.Context, filter bson.M) (*userDocument, error) {
	var doc userDocument
	err := d.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &doc, nil
}
