package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/repository"
	errprocess "github.com/AsemAbuOthman/Forsah-sub000/pkg/err"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageUseCase durable message store operations
type MessageUseCase interface {
	Send(ctx context.Context, in domain.NewMessageInput) (domain.Message, error)
	Reply(ctx context.Context, in domain.NewReplyInput) (domain.Message, error)
	Delete(ctx context.Context, messageID, senderID string) error
	UpdateStatus(ctx context.Context, messageID string, u domain.StatusUpdate) (bool, error)
	History(ctx context.Context, a, b string, limit int) ([]domain.Message, error)
	Contacts(ctx context.Context, userID string) ([]domain.Contact, error)
}

type messageUseCase struct {
	repo      repository.MessageRepository
	publisher repository.EventPublisher
	now       func() time.Time
}

// NewMessageUseCase create MessageUseCase, nil publisher publishes nothing
func NewMessageUseCase(repo repository.MessageRepository, publisher repository.EventPublisher) MessageUseCase {
	if publisher == nil {
		publisher = repository.NewNopPublisher()
	}
	return &messageUseCase{
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *messageUseCase) newMessage(sender, receiver, content string) domain.Message {
	return domain.Message{
		ID:             uuid.NewString(),
		SenderID:       sender,
		ReceiverID:     receiver,
		MessageContent: content,
		// postgres keeps microseconds
		Timestamp: uc.now().Truncate(time.Microsecond),
		Status:    domain.StatusSent,
	}
}

func (uc *messageUseCase) Send(ctx context.Context, in domain.NewMessageInput) (domain.Message, error) {
	if err := in.Validate(); err != nil {
		return domain.Message{}, err
	}

	msg := uc.newMessage(in.SenderID, in.ReceiverID, in.MessageContent)
	if err := uc.repo.Create(ctx, &msg); err != nil {
		return domain.Message{}, errprocess.Wrap("store message", err)
	}

	uc.publish(ctx, domain.Event{Type: domain.EventCreated, MessageID: msg.ID, ActorID: msg.SenderID,
		Conversation: domain.ConversationKey(msg.SenderID, msg.ReceiverID), Status: msg.Status, Message: &msg})
	return msg, nil
}

func (uc *messageUseCase) Reply(ctx context.Context, in domain.NewReplyInput) (domain.Message, error) {
	if err := in.Validate(); err != nil {
		return domain.Message{}, err
	}

	reply := uc.newMessage(in.ReplierID, in.ReceiverID, in.ReplyContent)
	if err := uc.repo.CreateReply(ctx, &reply, in.MessageID); err != nil {
		if errors.Is(err, domain.ErrReplyTargetNotFound) {
			return domain.Message{}, err
		}
		return domain.Message{}, errprocess.Wrap("store reply", err)
	}
	reply.ReplyTo = in.MessageID

	uc.publish(ctx, domain.Event{Type: domain.EventReplied, MessageID: reply.ID, ActorID: reply.SenderID,
		Conversation: domain.ConversationKey(reply.SenderID, reply.ReceiverID), Status: reply.Status, Message: &reply})
	return reply, nil
}

func (uc *messageUseCase) Delete(ctx context.Context, messageID, senderID string) error {
	if messageID == "" || senderID == "" {
		return fmt.Errorf("%w: messageId and senderId are required", domain.ErrInvalidInput)
	}
	if err := uc.repo.Delete(ctx, messageID, senderID); err != nil {
		return err
	}

	uc.publish(ctx, domain.Event{Type: domain.EventDeleted, MessageID: messageID, ActorID: senderID})
	return nil
}

func (uc *messageUseCase) UpdateStatus(ctx context.Context, messageID string, u domain.StatusUpdate) (bool, error) {
	if err := u.Validate(); err != nil {
		return false, err
	}

	updated, err := uc.repo.UpdateStatus(ctx, messageID, u.ActorID, u.SenderID, u.Status)
	if err != nil || !updated {
		return false, err
	}

	ev := domain.Event{Type: domain.EventStatus, MessageID: messageID, ActorID: u.ActorID, Status: u.Status}
	if u.SenderID != "" {
		ev.Conversation = domain.ConversationKey(u.SenderID, u.ActorID)
	}
	uc.publish(ctx, ev)
	return true, nil
}

func (uc *messageUseCase) History(ctx context.Context, a, b string, limit int) ([]domain.Message, error) {
	return uc.repo.History(ctx, a, b, limit)
}

func (uc *messageUseCase) Contacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	return uc.repo.Contacts(ctx, userID)
}

// publish 失敗只記 log, 不影響已完成的寫入
func (uc *messageUseCase) publish(ctx context.Context, ev domain.Event) {
	ev.OccurredAt = uc.now()
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		logger.Log.Error("publish event failed",
			zap.String("type", string(ev.Type)),
			zap.String("message_id", ev.MessageID),
			zap.Error(err),
		)
	}
}
