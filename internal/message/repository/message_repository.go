package repository

import (
	"context"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"
)

const defaultHistoryLimit = 500

// MessageRepository durable message storage
type MessageRepository interface {
	AutoMigrate(ctx context.Context) error
	Create(ctx context.Context, msg *domain.Message) error
	// CreateReply store reply linked to originalID, domain.ErrReplyTargetNotFound when it does not exist
	CreateReply(ctx context.Context, reply *domain.Message, originalID string) error
	// Delete remove messageID sent by senderID, domain.ErrNotFound otherwise
	Delete(ctx context.Context, messageID, senderID string) error
	// UpdateStatus move status forward when actorID is the receiver and expectSenderID (if set) the sender.
	// domain.ErrNotFound when the message does not exist, updated=false when nothing changed.
	UpdateStatus(ctx context.Context, messageID, actorID, expectSenderID string, status domain.MessageStatus) (bool, error)
	// History both directions between a and b, oldest first
	History(ctx context.Context, a, b string, limit int) ([]domain.Message, error)
	Contacts(ctx context.Context, userID string) ([]domain.Contact, error)
}

func historyLimit(limit int) int {
	if limit <= 0 || limit > defaultHistoryLimit {
		return defaultHistoryLimit
	}
	return limit
}
