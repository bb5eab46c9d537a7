package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"socialfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBus(t *testing.T, buffer int) EventBus {
	t.Helper()
	bus := NewEventBus(&EventBusConfig{BufferSize: buffer, WorkerCount: 2, HandlerTimeout: time.Second}, zap.NewNop())
	return bus
}

func TestEventBus_PublishAsyncDeliversTypedEvent(t *testing.T) {
	bus := newTestBus(t, 10)
	require.NoError(t, bus.Start(context.Background()))

	var delivered atomic.Int32
	handler := NewTypedEventHandler("test", func(ctx context.Context, e *NotificationRequestedEvent) error {
		if e.Notification.UserID == "u-2" {
			delivered.Add(1)
		}
		return nil
	})
	require.NoError(t, bus.Subscribe(EventNotificationRequested, handler))

	event := NewNotificationRequestedEvent(&models.Notification{ID: "n-1", UserID: "u-2", ActorID: "u-1"}, "comment")
	require.NoError(t, bus.PublishAsync(context.Background(), event))

	assert.Eventually(t, func() bool { return delivered.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, bus.Stop(context.Background()))

	stats := bus.Stats()
	assert.Equal(t, int64(1), stats.EventsPublished)
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, 1, stats.HandlersCount)
}

func TestEventBus_PublishAsyncSurvivesCallerCancellation(t *testing.T) {
	bus := newTestBus(t, 10)

	var sawCancelled atomic.Bool
	var handled atomic.Bool
	require.NoError(t, bus.Subscribe("test.event", NewEventHandlerFunc("test.event", func(ctx context.Context, e Event) error {
		sawCancelled.Store(ctx.Err() != nil)
		handled.Store(true)
		return nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	base := NewBaseEvent("test.event", "u-1")
	require.NoError(t, bus.PublishAsync(ctx, &base))
	cancel()

	require.NoError(t, bus.Start(context.Background()))
	assert.Eventually(t, handled.Load, time.Second, 5*time.Millisecond)
	assert.False(t, sawCancelled.Load())
	require.NoError(t, bus.Stop(context.Background()))
}

func TestEventBus_QueueFull(t *testing.T) {
	bus := newTestBus(t, 1)

	first := NewBaseEvent("test.event", "")
	second := NewBaseEvent("test.event", "")
	require.NoError(t, bus.PublishAsync(context.Background(), &first))
	err := bus.PublishAsync(context.Background(), &second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
	assert.Equal(t, int64(1), bus.Stats().EventsDropped)
}

func TestEventBus_StopDrainsQueue(t *testing.T) {
	bus := newTestBus(t, 50)

	var handled atomic.Int32
	require.NoError(t, bus.Subscribe("test.event", NewEventHandlerFunc("test.event", func(ctx context.Context, e Event) error {
		handled.Add(1)
		return nil
	})))

	for i := 0; i < 20; i++ {
		e := NewBaseEvent("test.event", "")
		require.NoError(t, bus.PublishAsync(context.Background(), &e))
	}
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))

	assert.Equal(t, int32(20), handled.Load())

	late := NewBaseEvent("test.event", "")
	assert.Error(t, bus.PublishAsync(context.Background(), &late))
}

func TestEventBus_HandlerPanicAndErrorAreCounted(t *testing.T) {
	bus := newTestBus(t, 10)
	require.NoError(t, bus.Subscribe("panics", NewEventHandlerFunc("panics", func(ctx context.Context, e Event) error {
		panic("boom")
	})))
	require.NoError(t, bus.Subscribe("fails", NewEventHandlerFunc("fails", func(ctx context.Context, e Event) error {
		return errors.New("nope")
	})))

	p := NewBaseEvent("panics", "")
	f := NewBaseEvent("fails", "")
	assert.Error(t, bus.Publish(context.Background(), &p))
	assert.Error(t, bus.Publish(context.Background(), &f))
	assert.Equal(t, int64(2), bus.Stats().EventsFailed)
}

func TestEventBus_Health(t *testing.T) {
	bus := newTestBus(t, 10)
	assert.Error(t, bus.Health())

	require.NoError(t, bus.Start(context.Background()))
	assert.NoError(t, bus.Health())

	require.NoError(t, bus.Stop(context.Background()))
	assert.Error(t, bus.Health())
}

func TestTypedEventHandler_Mismatch(t *testing.T) {
	handler := NewTypedEventHandler("typed", func(ctx context.Context, e *NotificationRequestedEvent) error {
		return nil
	})
	base := NewBaseEvent(EventNotificationRequested, "")
	assert.Error(t, handler.Handle(context.Background(), &base))
}
