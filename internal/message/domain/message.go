package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// MessageStatus 訊息狀態 sent -> delivered -> read
type MessageStatus string

const (
	// StatusSent stored, not yet seen by the receiver device
	StatusSent MessageStatus = "sent"
	// StatusDelivered reached a receiver device
	StatusDelivered MessageStatus = "delivered"
	// StatusRead read by the receiver
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

// Before statuses a message can move to s from
func (s MessageStatus) Before() []MessageStatus {
	var out []MessageStatus
	for _, st := range []MessageStatus{StatusSent, StatusDelivered, StatusRead} {
		if st.rank() < s.rank() {
			out = append(out, st)
		}
	}
	return out
}

var (
	// ErrNotFound message does not exist (or is not owned by the caller)
	ErrNotFound = errors.New("message not found")
	// ErrReplyTargetNotFound reply to a message that does not exist
	ErrReplyTargetNotFound = errors.New("original message not found")
	// ErrInvalidInput request failed validation
	ErrInvalidInput = errors.New("invalid input")
)

// Message 一則私訊, table messages / collection messages
type Message struct {
	ID             string        `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	SenderID       string        `gorm:"type:varchar(64);not null;index:idx_messages_pair,priority:1" json:"senderId" bson:"sender_id"`
	ReceiverID     string        `gorm:"type:varchar(64);not null;index:idx_messages_pair,priority:2" json:"receiverId" bson:"receiver_id"`
	MessageContent string        `gorm:"type:text;not null" json:"messageContent" bson:"message_content"`
	Timestamp      time.Time     `gorm:"not null;index" json:"timestamp" bson:"timestamp"`
	Status         MessageStatus `gorm:"type:varchar(16);not null;default:sent" json:"status" bson:"status"`
	ReplyTo        string        `gorm:"-" json:"messageId,omitempty" bson:"reply_to,omitempty"`
}

// ReplyLink reply -> original message (gorm only, mongo keeps reply_to inline)
type ReplyLink struct {
	ReplyID   string    `gorm:"primaryKey;type:varchar(64)"`
	MessageID string    `gorm:"type:varchar(64);not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// Contact counterpart of a user with the latest activity
type Contact struct {
	UserID        string    `gorm:"column:user_id" json:"userId" bson:"_id"`
	LastMessageAt time.Time `gorm:"column:last_message_at" json:"lastMessageAt" bson:"last_message_at"`
	UnreadCount   int64     `gorm:"column:unread_count" json:"unreadCount" bson:"unread_count"`
}

// NewMessageInput POST /send
type NewMessageInput struct {
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
	MessageContent string `json:"messageContent"`
}

// Validate check required fields
func (in NewMessageInput) Validate() error {
	switch {
	case in.SenderID == "":
		return invalid("senderId is required")
	case in.ReceiverID == "":
		return invalid("receiverId is required")
	case strings.TrimSpace(in.MessageContent) == "":
		return invalid("messageContent is required")
	}
	return nil
}

// NewReplyInput POST /reply
type NewReplyInput struct {
	MessageID    string `json:"messageId"`
	ReplierID    string `json:"replierId"`
	ReplyContent string `json:"replyContent"`
	ReceiverID   string `json:"receiverId"`
}

// Validate check required fields
func (in NewReplyInput) Validate() error {
	switch {
	case in.MessageID == "":
		return invalid("messageId is required")
	case in.ReplierID == "":
		return invalid("replierId is required")
	case in.ReceiverID == "":
		return invalid("receiverId is required")
	case strings.TrimSpace(in.ReplyContent) == "":
		return invalid("replyContent is required")
	}
	return nil
}

// StatusUpdate PATCH /messages/:id/status
type StatusUpdate struct {
	Status   MessageStatus `json:"status"`
	ActorID  string        `json:"actorId"`
	SenderID string        `json:"senderId,omitempty"`
}

// Validate check required fields
func (u StatusUpdate) Validate() error {
	if u.ActorID == "" {
		return invalid("actorId is required")
	}
	if u.Status != StatusDelivered && u.Status != StatusRead {
		return invalid("status must be delivered or read")
	}
	return nil
}

type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Unwrap() error { return ErrInvalidInput }

func invalid(msg string) error {
	return &inputError{msg: msg}
}

// ConversationKey 兩人對話的固定 key, 與順序無關, 第一個 id 帶長度前綴避免碰撞
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strconv.Itoa(len(a)) + ":" + a + "_" + b
}
