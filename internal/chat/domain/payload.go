package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID opaque identifier, accepts a JSON string or number
type ID string

// UnmarshalJSON accept "42" and 42
func (i *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*i = ID(n.String())
	return nil
}

func (i ID) String() string { return string(i) }

type field struct {
	name string
	val  ID
}

func required(fields ...field) error {
	for _, f := range fields {
		if f.val == "" {
			return InvalidArgument(f.name + " is required")
		}
	}
	return nil
}

// AuthenticatePayload authenticate
type AuthenticatePayload struct {
	UserID ID     `json:"userId"`
	Token  string `json:"token"`
}

// Validate check required fields
func (p AuthenticatePayload) Validate() error {
	return required(field{"userId", p.UserID})
}

// JoinConversationPayload join_conversation
type JoinConversationPayload struct {
	UserID    ID `json:"userId"`
	ContactID ID `json:"contactId"`
}

// Validate check required fields
func (p JoinConversationPayload) Validate() error {
	return required(field{"userId", p.UserID}, field{"contactId", p.ContactID})
}

// SendMessagePayload send_message
type SendMessagePayload struct {
	SenderID       ID     `json:"senderId"`
	ReceiverID     ID     `json:"receiverId"`
	MessageContent string `json:"messageContent"`
}

// Validate check required fields
func (p SendMessagePayload) Validate() error {
	if err := required(field{"senderId", p.SenderID}, field{"receiverId", p.ReceiverID}); err != nil {
		return err
	}
	if strings.TrimSpace(p.MessageContent) == "" {
		return InvalidArgument("messageContent is required")
	}
	return nil
}

// SendReplyPayload send_reply
type SendReplyPayload struct {
	MessageID    ID     `json:"messageId"`
	ReplierID    ID     `json:"replierId"`
	ReplyContent string `json:"replyContent"`
	ReceiverID   ID     `json:"receiverId"`
}

// Validate check required fields
func (p SendReplyPayload) Validate() error {
	if err := required(field{"messageId", p.MessageID}, field{"replierId", p.ReplierID}, field{"receiverId", p.ReceiverID}); err != nil {
		return err
	}
	if strings.TrimSpace(p.ReplyContent) == "" {
		return InvalidArgument("replyContent is required")
	}
	return nil
}

// TypingPayload typing (in)
type TypingPayload struct {
	ReceiverID ID   `json:"receiverId"`
	IsTyping   bool `json:"isTyping"`
}

// Validate check required fields
func (p TypingPayload) Validate() error {
	return required(field{"receiverId", p.ReceiverID})
}

// MessageRefPayload mark_read / delete_message: {messageId, senderId, receiverId}
type MessageRefPayload struct {
	MessageID  ID `json:"messageId"`
	SenderID   ID `json:"senderId"`
	ReceiverID ID `json:"receiverId"`
}

// Validate check required fields
func (p MessageRefPayload) Validate() error {
	return required(field{"messageId", p.MessageID}, field{"senderId", p.SenderID}, field{"receiverId", p.ReceiverID})
}

// OnlineStatusPayload get_online_status
type OnlineStatusPayload struct {
	UserID ID `json:"userId"`
}

// Validate check required fields
func (p OnlineStatusPayload) Validate() error {
	return required(field{"userId", p.UserID})
}

// MessageDeliveredPayload message_delivered (in)
type MessageDeliveredPayload struct {
	MessageID  ID `json:"messageId"`
	ReceiverID ID `json:"receiverId"`
}

// Validate check required fields
func (p MessageDeliveredPayload) Validate() error {
	return required(field{"messageId", p.MessageID}, field{"receiverId", p.ReceiverID})
}

// UserEvent authenticated / user_online / user_offline
type UserEvent struct {
	UserID string `json:"userId"`
}

// TypingEvent typing (out)
type TypingEvent struct {
	SenderID string `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

// MessageEvent message_read / message_deleted / message_delivered (out)
type MessageEvent struct {
	MessageID string `json:"messageId"`
}

// OnlineStatus get_online_status ack
type OnlineStatus struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// Decode unmarshal and validate a request payload
func Decode[T interface{ Validate() error }](raw json.RawMessage) (T, error) {
	var p T
	if len(raw) == 0 {
		return p, InvalidArgument("payload is required")
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, InvalidArgument("malformed payload: " + err.Error())
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
