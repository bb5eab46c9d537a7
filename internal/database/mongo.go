package database

import (
	"context"
	"fmt"
	"time"

	"socialfeed/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore holds the MongoDB client and the collections used by the comment engine
type MongoStore struct {
	Client        *mongo.Client
	Comments      *mongo.Collection
	Users         *mongo.Collection
	Posts         *mongo.Collection
	Notifications *mongo.Collection
	logger        *zap.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection
func NewMongoStore(cfg *config.StoreConfig, logger *zap.Logger) (*MongoStore, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)

	timeout := cfg.MongoTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	store := &MongoStore{
		Client:        client,
		Comments:      db.Collection("comments"),
		Users:         db.Collection("users"),
		Posts:         db.Collection("posts"),
		Notifications: db.Collection("notifications"),
		logger:        logger,
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	return store, nil
}

// EnsureIndexes creates the indexes the comment queries rely on
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.Comments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "parent_comment_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "parent_comment_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comment indexes: %w", err)
	}

	_, err = s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	_, err = s.Notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}

// Ping checks MongoDB connectivity
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *MongoStore) Close(ctx context.Context) error {
	s.logger.Info("Closing MongoDB connection")
	return s.Client.Disconnect(ctx)
}
