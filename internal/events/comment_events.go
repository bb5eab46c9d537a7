package events

import "socialfeed/internal/models"

// Event type names
const (
	EventNotificationRequested = "notification.requested"
)

// ===============================
// DOMAIN EVENTS
// ===============================

// NotificationRequestedEvent asks the dispatcher to deliver one notification
type NotificationRequestedEvent struct {
	BaseEvent
	Notification *models.Notification `json:"notification"`
	// Reason is a short label for logs (comment, reply, reaction, mention)
	Reason string `json:"reason"`
}

// NewNotificationRequestedEvent wraps a notification payload in an event
func NewNotificationRequestedEvent(n *models.Notification, reason string) *NotificationRequestedEvent {
	return &NotificationRequestedEvent{
		BaseEvent:    NewBaseEvent(EventNotificationRequested, n.ActorID),
		Notification: n,
		Reason:       reason,
	}
}
