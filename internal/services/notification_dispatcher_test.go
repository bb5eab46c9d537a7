package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"socialfeed/internal/events"
	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakySink fails the first writes of each notification, then delegates
type flakySink struct {
	mu       sync.Mutex
	failures int
	attempts map[string]int
	next     *repositories.MemoryNotificationSink
}

func (s *flakySink) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	s.attempts[n.ID]++
	attempt := s.attempts[n.ID]
	s.mu.Unlock()

	if attempt <= s.failures {
		return errors.New("store unavailable")
	}
	return s.next.Create(ctx, n)
}

func newDispatcher(t *testing.T, sink repositories.NotificationSink) (*NotificationDispatcher, events.EventBus) {
	return newDispatcherWithUsers(t, sink, nil)
}

func newDispatcherWithUsers(t *testing.T, sink repositories.NotificationSink, users repositories.UserDirectory) (*NotificationDispatcher, events.EventBus) {
	t.Helper()
	bus := events.NewEventBus(&events.EventBusConfig{BufferSize: 16, WorkerCount: 1, HandlerTimeout: 5 * time.Second}, zap.NewNop())
	d, err := NewNotificationDispatcher(bus, sink, users, zap.NewNop(), &DispatcherConfig{
		MaxRetries:   3,
		RetryDelay:   time.Millisecond,
		WriteTimeout: time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, bus.Start(context.Background()))
	return d, bus
}

func stopBus(t *testing.T, bus events.EventBus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
}

func TestNotificationDispatcher_RetriesWithoutDuplicates(t *testing.T) {
	memory := repositories.NewMemoryNotificationSink()
	sink := &flakySink{failures: 2, attempts: map[string]int{}, next: memory}
	d, bus := newDispatcher(t, sink)

	comment := &models.Comment{ID: "c-1", PostID: "p-1", Text: "hello"}
	n := CommentNotification(bob.ID, alice, comment)
	d.Dispatch(context.Background(), n, "comment")

	assert.Eventually(t, func() bool {
		return len(memory.ForUser(bob.ID)) == 1
	}, 2*time.Second, 5*time.Millisecond)

	stopBus(t, bus)

	sink.mu.Lock()
	assert.Equal(t, 3, sink.attempts[n.ID])
	sink.mu.Unlock()
	assert.Len(t, memory.All(), 1)
}

func TestNotificationDispatcher_GivesUpAfterMaxRetries(t *testing.T) {
	memory := repositories.NewMemoryNotificationSink()
	sink := &flakySink{failures: 100, attempts: map[string]int{}, next: memory}
	d, bus := newDispatcher(t, sink)

	n := ReplyNotification(alice.ID, bob, &models.Comment{ID: "c-2", PostID: "p-1", Text: "hi"})
	d.Dispatch(context.Background(), n, "reply")
	stopBus(t, bus)

	sink.mu.Lock()
	assert.Equal(t, 4, sink.attempts[n.ID])
	sink.mu.Unlock()
	assert.Empty(t, memory.All())
	assert.Equal(t, int64(1), bus.Stats().EventsFailed)
}

func TestNotificationDispatcher_SkipsSelfAndEmptyRecipients(t *testing.T) {
	memory := repositories.NewMemoryNotificationSink()
	d, bus := newDispatcher(t, memory)

	comment := &models.Comment{ID: "c-1", PostID: "p-1", Text: "hi"}
	d.Dispatch(context.Background(), CommentNotification(alice.ID, alice, comment), "comment")
	d.Dispatch(context.Background(), CommentNotification("", alice, comment), "comment")
	d.Dispatch(context.Background(), nil, "comment")
	stopBus(t, bus)

	assert.Empty(t, memory.All())
	assert.Equal(t, int64(0), bus.Stats().EventsPublished)
}

func TestNotificationBuilders(t *testing.T) {
	avatar := "https://example.com/a.png"
	actor := models.Author{ID: "u-1", Username: "alice", Avatar: &avatar}
	comment := &models.Comment{ID: "c-1", PostID: "p-1", Text: strings.Repeat("ü", 50)}

	n := MentionNotification("u-2", actor, comment)
	assert.Equal(t, `mentioned you in a comment: "`+strings.Repeat("ü", 50)+`"`, n.Text)
	assert.Equal(t, models.NotificationTypeComment, n.Type)
	assert.Equal(t, "alice", n.ActorUsername)
	assert.Equal(t, &avatar, n.ActorAvatar)
	assert.NotEmpty(t, n.ID)

	comment.Text = strings.Repeat("ü", 51)
	n = CommentNotification("u-2", actor, comment)
	assert.Equal(t, `commented: "`+strings.Repeat("ü", 50)+`..."`, n.Text)

	comment.Text = `say "hi"`
	n = ReplyNotification("u-2", actor, comment)
	assert.Equal(t, `replied to your comment: "say "hi""`, n.Text)

	n = ReactionNotification("u-2", actor, comment, models.ReactionAngry)
	assert.Equal(t, "reacted 😠 to your comment", n.Text)
	assert.Equal(t, models.NotificationTypeCommentLike, n.Type)

	assert.NotEqual(t, CommentNotification("u-2", actor, comment).ID, CommentNotification("u-2", actor, comment).ID)
}

func TestNotificationDispatcher_DropsMissingRecipients(t *testing.T) {
	directory := repositories.NewMemoryDirectory()
	directory.AddUser(models.UserProfile{ID: bob.ID, Username: bob.Username})

	sink := repositories.NewMemoryNotificationSink()
	d, bus := newDispatcherWithUsers(t, sink, directory.Users())

	comment := &models.Comment{ID: "c-1", PostID: "p-1", Text: "hello"}
	d.Dispatch(context.Background(), CommentNotification("u-removed", alice, comment), "comment")
	d.Dispatch(context.Background(), CommentNotification(bob.ID, alice, comment), "comment")

	assert.Eventually(t, func() bool {
		return len(sink.ForUser(bob.ID)) == 1
	}, 2*time.Second, 5*time.Millisecond)

	stopBus(t, bus)
	assert.Empty(t, sink.ForUser("u-removed"))
	assert.Len(t, sink.All(), 1)
}
