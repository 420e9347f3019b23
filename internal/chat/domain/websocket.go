package domain

import "encoding/json"

// Action websocket event name
type Action string

const (
	// Authenticate bind the connection to a user
	Authenticate Action = "authenticate"
	// JoinConversation subscribe the connection to a conversation room
	JoinConversation Action = "join_conversation"
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// SendReply websocket action send_reply
	SendReply Action = "send_reply"
	// Typing typing indicator, in and out
	Typing Action = "typing"
	// MarkRead websocket action mark_read
	MarkRead Action = "mark_read"
	// DeleteMessage websocket action delete_message
	DeleteMessage Action = "delete_message"
	// GetOnlineStatus websocket action get_online_status
	GetOnlineStatus Action = "get_online_status"
	// MessageDelivered delivery receipt, in and out
	MessageDelivered Action = "message_delivered"

	// Authenticated authenticate success
	Authenticated Action = "authenticated"
	// AuthenticationError authenticate failed
	AuthenticationError Action = "authentication_error"
	// NewMessage room broadcast after a message is stored
	NewMessage Action = "new_message"
	// NewReply room broadcast after a reply is stored
	NewReply Action = "new_reply"
	// MessageRead read receipt
	MessageRead Action = "message_read"
	// MessageDeleted room broadcast after delete
	MessageDeleted Action = "message_deleted"
	// UserOnline user got the first connection
	UserOnline Action = "user_online"
	// UserOffline user lost the last connection
	UserOffline Action = "user_offline"
	// Error typed error frame
	Error Action = "error"
)

// WSRequest websocket Request
type WSRequest struct {
	Action    string          `json:"action"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action    string      `json:"action"`
	RequestID string      `json:"request_id,omitempty"`
	Success   bool        `json:"success"`
	Payload   interface{} `json:"payload,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// Event server push without request id
func Event(action Action, payload interface{}) WSResponse {
	return WSResponse{Action: string(action), Success: true, Payload: payload}
}

// ErrorFrame typed error frame
func ErrorFrame(requestID string, err *WSError) WSResponse {
	return WSResponse{
		Action:    string(Error),
		RequestID: requestID,
		Payload:   err,
		Error:     err.Message,
	}
}

// Ack callback result: {status, message?} or {status, reply?}
type Ack struct {
	Status  string      `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Reply   interface{} `json:"reply,omitempty"`
}

const (
	// AckSuccess ack status success
	AckSuccess = "success"
	// AckError ack status error
	AckError = "error"
)

// ErrorAck ack with the failure reason
func ErrorAck(reason string) Ack {
	return Ack{Status: AckError, Message: reason}
}
