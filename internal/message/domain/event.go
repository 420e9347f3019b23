package domain

import "time"

// EventType message lifecycle event name, also the rabbitmq routing key
type EventType string

const (
	// EventCreated message stored
	EventCreated EventType = "message.created"
	// EventReplied reply stored
	EventReplied EventType = "message.replied"
	// EventDeleted message deleted by its sender
	EventDeleted EventType = "message.deleted"
	// EventStatus status moved forward
	EventStatus EventType = "message.status"
)

// Event published after a successful write
type Event struct {
	Type         EventType     `json:"type"`
	MessageID    string        `json:"messageId"`
	Conversation string        `json:"conversation"`
	ActorID      string        `json:"actorId"`
	Status       MessageStatus `json:"status,omitempty"`
	Message      *Message      `json:"message,omitempty"`
	OccurredAt   time.Time     `json:"occurredAt"`
}
