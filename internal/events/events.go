package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ===============================
// EVENT INTERFACE
// ===============================

// Event represents a domain event
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() string
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
}

// NewBaseEvent stamps a new event with an id and the current time
func NewBaseEvent(eventType, userID string) BaseEvent {
	return BaseEvent{
		EventID:   GenerateEventID(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
	}
}

// GetEventID returns the event ID
func (e *BaseEvent) GetEventID() string {
	return e.EventID
}

// GetEventType returns the event type
func (e *BaseEvent) GetEventType() string {
	return e.EventType
}

// GetTimestamp returns the event timestamp
func (e *BaseEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

// GetUserID returns the acting user associated with the event
func (e *BaseEvent) GetUserID() string {
	return e.UserID
}

// ===============================
// EVENT BUS INTERFACE
// ===============================

// EventBus defines the event publishing and subscription interface
type EventBus interface {
	// Publishing
	Publish(ctx context.Context, event Event) error
	PublishAsync(ctx context.Context, event Event) error

	// Subscription
	Subscribe(eventType string, handler EventHandler) error

	// Management
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health() error
	Stats() *EventBusStats
}

// EventHandler represents an event handler
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
	GetHandlerID() string
}

// EventBusStats represents event bus statistics
type EventBusStats struct {
	EventsPublished int64         `json:"events_published"`
	EventsProcessed int64         `json:"events_processed"`
	EventsFailed    int64         `json:"events_failed"`
	EventsDropped   int64         `json:"events_dropped"`
	HandlersCount   int           `json:"handlers_count"`
	QueueDepth      int           `json:"queue_depth"`
	Uptime          time.Duration `json:"uptime"`
}

// ===============================
// IN-MEMORY EVENT BUS
// ===============================

// EventBusConfig holds configuration for the event bus
type EventBusConfig struct {
	BufferSize     int           `json:"buffer_size"`
	WorkerCount    int           `json:"worker_count"`
	HandlerTimeout time.Duration `json:"handler_timeout"`
}

// DefaultEventBusConfig returns default configuration
func DefaultEventBusConfig() *EventBusConfig {
	return &EventBusConfig{
		BufferSize:     1000,
		WorkerCount:    5,
		HandlerTimeout: 30 * time.Second,
	}
}

// inMemoryEventBus implements EventBus using a buffered channel and a worker pool
type inMemoryEventBus struct {
	mu         sync.RWMutex
	handlers   map[string][]EventHandler
	eventQueue chan eventMessage
	logger     *zap.Logger
	config     *EventBusConfig
	startTime  time.Time
	wg         sync.WaitGroup
	started    bool
	closed     bool

	published int64
	processed int64
	failed    int64
	dropped   int64
}

// eventMessage wraps an event with the publisher's context values
type eventMessage struct {
	ctx   context.Context
	event Event
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(config *EventBusConfig, logger *zap.Logger) EventBus {
	if config == nil {
		config = DefaultEventBusConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultEventBusConfig().BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.HandlerTimeout <= 0 {
		config.HandlerTimeout = DefaultEventBusConfig().HandlerTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &inMemoryEventBus{
		handlers:   make(map[string][]EventHandler),
		eventQueue: make(chan eventMessage, config.BufferSize),
		logger:     logger,
		config:     config,
		startTime:  time.Now(),
	}
}

// Publish processes an event synchronously on the caller's goroutine
func (b *inMemoryEventBus) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	atomic.AddInt64(&b.published, 1)
	if err := b.processEvent(ctx, event); err != nil {
		atomic.AddInt64(&b.failed, 1)
		return err
	}
	atomic.AddInt64(&b.processed, 1)
	return nil
}

// PublishAsync enqueues an event for the worker pool. The event keeps the
// caller's context values but not its cancellation.
func (b *inMemoryEventBus) PublishAsync(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		atomic.AddInt64(&b.dropped, 1)
		return fmt.Errorf("event bus is stopped")
	}

	select {
	case b.eventQueue <- eventMessage{ctx: context.WithoutCancel(ctx), event: event}:
		atomic.AddInt64(&b.published, 1)
		return nil
	default:
		atomic.AddInt64(&b.dropped, 1)
		return fmt.Errorf("event queue is full")
	}
}

// Subscribe subscribes to events of a specific type
func (b *inMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	b.logger.Info("Handler subscribed",
		zap.String("event_type", eventType),
		zap.String("handler_id", handler.GetHandlerID()),
	)
	return nil
}

// Start starts the event bus workers
func (b *inMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}
	if b.closed {
		return fmt.Errorf("event bus is stopped")
	}
	b.started = true

	b.logger.Info("Starting event bus", zap.Int("worker_count", b.config.WorkerCount))
	for i := 0; i < b.config.WorkerCount; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
	return nil
}

// Stop closes the queue and waits for workers to drain it
func (b *inMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.eventQueue)
	started := b.started
	b.mu.Unlock()

	if !started {
		return nil
	}

	b.logger.Info("Stopping event bus", zap.Int("queued", len(b.eventQueue)))

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("Event bus stopped successfully")
		return nil
	case <-ctx.Done():
		b.logger.Warn("Event bus stop timeout")
		return ctx.Err()
	}
}

// Health checks the health of the event bus
func (b *inMemoryEventBus) Health() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("event bus is stopped")
	}
	if !b.started {
		return fmt.Errorf("event bus is not started")
	}

	queueDepth := len(b.eventQueue)
	if queueDepth > b.config.BufferSize*80/100 {
		return fmt.Errorf("event queue is %d%% full", queueDepth*100/b.config.BufferSize)
	}
	return nil
}

// Stats returns event bus statistics
func (b *inMemoryEventBus) Stats() *EventBusStats {
	b.mu.RLock()
	handlers := 0
	for _, hs := range b.handlers {
		handlers += len(hs)
	}
	b.mu.RUnlock()

	return &EventBusStats{
		EventsPublished: atomic.LoadInt64(&b.published),
		EventsProcessed: atomic.LoadInt64(&b.processed),
		EventsFailed:    atomic.LoadInt64(&b.failed),
		EventsDropped:   atomic.LoadInt64(&b.dropped),
		HandlersCount:   handlers,
		QueueDepth:      len(b.eventQueue),
		Uptime:          time.Since(b.startTime),
	}
}

// worker processes events until the queue is closed and drained
func (b *inMemoryEventBus) worker(workerID int) {
	defer b.wg.Done()

	for msg := range b.eventQueue {
		if err := b.processEvent(msg.ctx, msg.event); err != nil {
			b.logger.Error("Failed to process event",
				zap.Int("worker_id", workerID),
				zap.String("event_id", msg.event.GetEventID()),
				zap.String("event_type", msg.event.GetEventType()),
				zap.Error(err),
			)
			atomic.AddInt64(&b.failed, 1)
			continue
		}
		atomic.AddInt64(&b.processed, 1)
	}
}

// processEvent runs every handler subscribed to the event type
func (b *inMemoryEventBus) processEvent(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.handlers[event.GetEventType()]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("No handlers found for event",
			zap.String("event_type", event.GetEventType()),
			zap.String("event_id", event.GetEventID()),
		)
		return nil
	}

	failures := 0
	for _, handler := range handlers {
		if err := b.executeHandler(ctx, handler, event); err != nil {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("failed to execute %d out of %d handlers", failures, len(handlers))
	}
	return nil
}

// executeHandler executes a single handler with timeout and recovery
func (b *inMemoryEventBus) executeHandler(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Handler panicked",
				zap.String("handler_id", handler.GetHandlerID()),
				zap.String("event_type", event.GetEventType()),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("handler %s panicked: %v", handler.GetHandlerID(), r)
		}
	}()

	handlerCtx, cancel := context.WithTimeout(ctx, b.config.HandlerTimeout)
	defer cancel()

	return handler.Handle(handlerCtx, event)
}

// ===============================
// UTILITY FUNCTIONS
// ===============================

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	if id, err := uuid.NewV4(); err == nil {
		return "evt_" + id.String()
	}
	return fmt.Sprintf("evt_%d", time.Now().UnixNano())
}

// NewEventBus creates a new event bus instance
func NewEventBus(config *EventBusConfig, logger *zap.Logger) EventBus {
	return NewInMemoryEventBus(config, logger)
}

// ===============================
// EVENT HANDLER HELPERS
// ===============================

// EventHandlerFunc is a function type that implements EventHandler
type EventHandlerFunc struct {
	ID   string
	Func func(ctx context.Context, event Event) error
}

// Handle implements EventHandler
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f.Func(ctx, event)
}

// GetHandlerID implements EventHandler
func (f EventHandlerFunc) GetHandlerID() string {
	return f.ID
}

// NewEventHandlerFunc creates an EventHandler from a function
func NewEventHandlerFunc(id string, fn func(ctx context.Context, event Event) error) EventHandler {
	return EventHandlerFunc{ID: id, Func: fn}
}

// TypedEventHandler is a generic handler for specific event types
type TypedEventHandler[T Event] struct {
	ID      string
	Handler func(ctx context.Context, event T) error
}

// Handle implements EventHandler
func (h TypedEventHandler[T]) Handle(ctx context.Context, event Event) error {
	if typedEvent, ok := event.(T); ok {
		return h.Handler(ctx, typedEvent)
	}
	return fmt.Errorf("event type mismatch: expected %T, got %T", *new(T), event)
}

// GetHandlerID implements EventHandler
func (h TypedEventHandler[T]) GetHandlerID() string {
	return h.ID
}

// NewTypedEventHandler creates a typed event handler
func NewTypedEventHandler[T Event](id string, handler func(ctx context.Context, event T) error) EventHandler {
	return TypedEventHandler[T]{ID: id, Handler: handler}
}
