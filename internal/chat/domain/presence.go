package domain

import "time"

// PresenceSession presence record shared between gateway nodes
type PresenceSession struct {
	UserID      string    `json:"user_id"`
	NodeID      string    `json:"node_id"`
	Connections int       `json:"connections"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RelayScope fan-out target kind of a relayed event
type RelayScope string

const (
	// ScopeRoom every member of a conversation room
	ScopeRoom RelayScope = "room"
	// ScopeUser every connection of one user
	ScopeUser RelayScope = "user"
	// ScopeAll every connection on the node
	ScopeAll RelayScope = "all"
)

// RelayEnvelope event published to the other gateway nodes
type RelayEnvelope struct {
	Origin string     `json:"origin"`
	Scope  RelayScope `json:"scope"`
	Target string     `json:"target,omitempty"`
	Event  WSResponse `json:"event"`
}
