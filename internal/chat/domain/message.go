package domain

import "time"

// MessageStatus delivery status of a message: sent -> delivered -> read
type MessageStatus string

const (
	// StatusSent stored by the message service
	StatusSent MessageStatus = "sent"
	// StatusDelivered receiver client got it
	StatusDelivered MessageStatus = "delivered"
	// StatusRead receiver opened it
	StatusRead MessageStatus = "read"
)

func (s MessageStatus) rank() int {
	switch s {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	}
	return 0
}

// Valid known status
func (s MessageStatus) Valid() bool {
	return s.rank() > 0
}

// CanTransition status only moves forward
func (s MessageStatus) CanTransition(to MessageStatus) bool {
	return to.Valid() && to.rank() > s.rank()
}

// Message transport-level envelope. ReplyTo is set for replies.
type Message struct {
	ID             string        `json:"id"`
	SenderID       string        `json:"senderId"`
	ReceiverID     string        `json:"receiverId"`
	MessageContent string        `json:"messageContent"`
	Timestamp      time.Time     `json:"timestamp"`
	Status         MessageStatus `json:"status"`
	ReplyTo        string        `json:"messageId,omitempty"`
}

// NewMessageInput create message request to the message service
type NewMessageInput struct {
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
	MessageContent string `json:"messageContent"`
}

// NewReplyInput create reply request to the message service
type NewReplyInput struct {
	MessageID    string `json:"messageId"`
	ReplierID    string `json:"replierId"`
	ReplyContent string `json:"replyContent"`
	ReceiverID   string `json:"receiverId"`
}
