package services

import (
	"context"
	"fmt"
	"time"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/events"
	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// previewLength is the number of characters of comment text quoted in notifications
const previewLength = 50

// DispatcherConfig holds notification delivery configuration
type DispatcherConfig struct {
	MaxRetries   int
	RetryDelay   time.Duration
	WriteTimeout time.Duration
}

// DefaultDispatcherConfig returns default delivery configuration
func DefaultDispatcherConfig() *DispatcherConfig {
	return &DispatcherConfig{
		MaxRetries:   3,
		RetryDelay:   200 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// NotificationDispatcher fans notifications out through the event bus and
// writes them to the sink with retries. Failures never reach the caller.
type NotificationDispatcher struct {
	bus    events.EventBus
	sink   repositories.NotificationSink
	users  repositories.UserDirectory
	logger *zap.Logger
	config *DispatcherConfig
	now    func() time.Time
}

// NewNotificationDispatcher creates a dispatcher and subscribes its delivery handler.
// When users is set, notifications for recipients that no longer exist are dropped.
func NewNotificationDispatcher(bus events.EventBus, sink repositories.NotificationSink, users repositories.UserDirectory, logger *zap.Logger, config *DispatcherConfig) (*NotificationDispatcher, error) {
	if config == nil {
		config = DefaultDispatcherConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &NotificationDispatcher{
		bus:    bus,
		sink:   sink,
		users:  users,
		logger: logger,
		config: config,
		now:    func() time.Time { return time.Now().UTC() },
	}

	handler := events.NewTypedEventHandler("notification-dispatcher",
		func(ctx context.Context, e *events.NotificationRequestedEvent) error {
			return d.deliver(ctx, e.Notification)
		})
	if err := bus.Subscribe(events.EventNotificationRequested, handler); err != nil {
		return nil, fmt.Errorf("failed to subscribe notification handler: %w", err)
	}
	return d, nil
}

// Dispatch queues a notification. Self-directed notifications are dropped.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, n *models.Notification, reason string) {
	if n == nil || n.UserID == "" || n.UserID == n.ActorID {
		return
	}
	if n.ID == "" {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now()
	}

	if err := d.bus.PublishAsync(ctx, events.NewNotificationRequestedEvent(n, reason)); err != nil {
		contextutils.GetLogger(ctx, d.logger).Error("Failed to enqueue notification",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.UserID),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

// deliver writes a notification with exponential backoff. Every attempt reuses
// the same id so the sink can discard duplicates.
func (d *NotificationDispatcher) deliver(ctx context.Context, n *models.Notification) error {
	logger := contextutils.GetLogger(ctx, d.logger)

	if d.users != nil {
		exists, err := d.users.Exists(ctx, n.UserID)
		switch {
		case err != nil:
			logger.Warn("Failed to check notification recipient, delivering anyway",
				zap.String("notification_id", n.ID),
				zap.String("recipient_id", n.UserID),
				zap.Error(err),
			)
		case !exists:
			logger.Debug("Dropping notification for missing recipient",
				zap.String("notification_id", n.ID),
				zap.String("recipient_id", n.UserID),
			)
			return nil
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.config.RetryDelay
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.config.MaxRetries)), ctx)

	operation := func() error {
		writeCtx, cancel := context.WithTimeout(ctx, d.config.WriteTimeout)
		defer cancel()
		return d.sink.Create(writeCtx, n)
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Notification delivery failed, retrying",
			zap.String("notification_id", n.ID),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		logger.Error("Failed to deliver notification",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.UserID),
			zap.String("type", n.Type),
			zap.Error(err),
		)
		return err
	}

	logger.Debug("Notification delivered",
		zap.String("notification_id", n.ID),
		zap.String("recipient_id", n.UserID),
		zap.String("type", n.Type),
	)
	return nil
}

// ===============================
// NOTIFICATION BUILDERS
// ===============================

// CommentNotification tells a post author about a new top-level comment
func CommentNotification(recipientID string, actor models.Author, comment *models.Comment) *models.Notification {
	return buildNotification(recipientID, actor, models.NotificationTypeComment, comment,
		fmt.Sprintf("commented: \"%s\"", previewText(comment.Text)))
}

// ReplyNotification tells a comment author about a reply
func ReplyNotification(recipientID string, actor models.Author, comment *models.Comment) *models.Notification {
	return buildNotification(recipientID, actor, models.NotificationTypeCommentReply, comment,
		fmt.Sprintf("replied to your comment: \"%s\"", previewText(comment.Text)))
}

// ReactionNotification tells a comment author about a new or changed reaction
func ReactionNotification(recipientID string, actor models.Author, comment *models.Comment, reaction models.ReactionType) *models.Notification {
	return buildNotification(recipientID, actor, models.NotificationTypeCommentLike, comment,
		fmt.Sprintf("reacted %s to your comment", reaction.Emoji()))
}

// MentionNotification tells a user they were mentioned
func MentionNotification(recipientID string, actor models.Author, comment *models.Comment) *models.Notification {
	return buildNotification(recipientID, actor, models.NotificationTypeComment, comment,
		fmt.Sprintf("mentioned you in a comment: \"%s\"", previewText(comment.Text)))
}

func buildNotification(recipientID string, actor models.Author, notificationType string, comment *models.Comment, text string) *models.Notification {
	return &models.Notification{
		ID:            newID(),
		UserID:        recipientID,
		ActorID:       actor.ID,
		ActorUsername: actor.Username,
		ActorAvatar:   actor.Avatar,
		Type:          notificationType,
		PostID:        comment.PostID,
		CommentID:     comment.ID,
		Text:          text,
		Read:          false,
	}
}

// previewText keeps the first characters of text, marking truncation with "..."
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// newID generates a random identifier
func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}
