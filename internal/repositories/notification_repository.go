package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ===============================
// POSTGRES SINK
// ===============================

// notificationRepository stores notifications in PostgreSQL
type notificationRepository struct {
	*BaseRepository
}

// NewNotificationRepository creates a PostgreSQL-backed NotificationSink
func NewNotificationRepository(db *database.Manager, logger *zap.Logger) NotificationSink {
	return &notificationRepository{BaseRepository: NewBaseRepository(db, logger)}
}

// Create inserts a notification; a repeated id is ignored
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, actor_id, actor_username, actor_avatar, type,
			post_id, comment_id, text, read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`,
		n.ID, n.UserID, n.ActorID, n.ActorUsername, n.ActorAvatar, n.Type,
		n.PostID, n.CommentID, n.Text, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ===============================
// MONGO SINK
// ===============================

type notificationDocument struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	ActorID       string    `bson:"actor_id"`
	ActorUsername string    `bson:"actor_username"`
	ActorAvatar   *string   `bson:"actor_avatar"`
	Type          string    `bson:"type"`
	PostID        string    `bson:"post_id"`
	CommentID     string    `bson:"comment_id"`
	Text          string    `bson:"text"`
	Read          bool      `bson:"read"`
	CreatedAt     time.Time `bson:"created_at"`
}

type mongoNotificationRepository struct {
	notifications *mongo.Collection
}

// NewMongoNotificationRepository creates a MongoDB-backed NotificationSink
func NewMongoNotificationRepository(store *database.MongoStore) NotificationSink {
	return &mongoNotificationRepository{notifications: store.Notifications}
}

// Create inserts a notification keyed by its id; a duplicate key is ignored
func (r *mongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.notifications.InsertOne(ctx, notificationDocument{
		ID:            n.ID,
		UserID:        n.UserID,
		ActorID:       n.ActorID,
		ActorUsername: n.ActorUsername,
		ActorAvatar:   n.ActorAvatar,
		Type:          n.Type,
		PostID:        n.PostID,
		CommentID:     n.CommentID,
		Text:          n.Text,
		Read:          n.Read,
		CreatedAt:     n.CreatedAt,
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ===============================
// MEMORY SINK
// ===============================

// MemoryNotificationSink keeps notifications in process memory
type MemoryNotificationSink struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	order         []string
}

// NewMemoryNotificationSink creates an empty sink
func NewMemoryNotificationSink() *MemoryNotificationSink {
	return &MemoryNotificationSink{notifications: make(map[string]*models.Notification)}
}

// Create stores a notification; a repeated id is ignored
func (s *MemoryNotificationSink) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[n.ID]; exists {
		return nil
	}
	clone := *n
	s.notifications[n.ID] = &clone
	s.order = append(s.order, n.ID)
	return nil
}

// ForUser returns the notifications addressed to a user in insertion order
func (s *MemoryNotificationSink) ForUser(userID string) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*models.Notification{}
	for _, id := range s.order {
		if n := s.notifications[id]; n.UserID == userID {
			clone := *n
			result = append(result, &clone)
		}
	}
	return result
}

// All returns every stored notification ordered by id
func (s *MemoryNotificationSink) All() []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		clone := *n
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
