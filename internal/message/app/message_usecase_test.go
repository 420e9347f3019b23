package app

import (
	"context"
	"errors"
	"testing"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup() (MessageUseCase, *MockMessageRepository, *MockEventPublisher) {
	logger.SetNewNop()
	repo := new(MockMessageRepository)
	pub := new(MockEventPublisher)
	return NewMessageUseCase(repo, pub), repo, pub
}

func isEvent(t domain.EventType) interface{} {
	return mock.MatchedBy(func(ev domain.Event) bool { return ev.Type == t })
}

func TestSend(t *testing.T) {
	uc, repo, pub := setup()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	pub.On("Publish", mock.Anything, isEvent(domain.EventCreated)).Return(nil)

	msg, err := uc.Send(context.Background(), domain.NewMessageInput{SenderID: "1", ReceiverID: "2", MessageContent: "hi"})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, domain.StatusSent, msg.Status)
	assert.False(t, msg.Timestamp.IsZero())
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestSend_Invalid(t *testing.T) {
	uc, repo, _ := setup()

	_, err := uc.Send(context.Background(), domain.NewMessageInput{SenderID: "1", MessageContent: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSend_RepoFailureNoEvent(t *testing.T) {
	uc, repo, pub := setup()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := uc.Send(context.Background(), domain.NewMessageInput{SenderID: "1", ReceiverID: "2", MessageContent: "hi"})
	assert.Error(t, err)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSend_PublishFailureIgnored(t *testing.T) {
	uc, repo, pub := setup()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := uc.Send(context.Background(), domain.NewMessageInput{SenderID: "1", ReceiverID: "2", MessageContent: "hi"})
	assert.NoError(t, err)
}

func TestReply(t *testing.T) {
	uc, repo, pub := setup()
	repo.On("CreateReply", mock.Anything, mock.Anything, "m1").Return(nil)
	pub.On("Publish", mock.Anything, isEvent(domain.EventReplied)).Return(nil)

	reply, err := uc.Reply(context.Background(), domain.NewReplyInput{MessageID: "m1", ReplierID: "2", ReplyContent: "ok", ReceiverID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "m1", reply.ReplyTo)
	assert.Equal(t, "2", reply.SenderID)
	assert.Equal(t, "1", reply.ReceiverID)
}

func TestReply_TargetMissing(t *testing.T) {
	uc, repo, _ := setup()
	repo.On("CreateReply", mock.Anything, mock.Anything, "gone").Return(domain.ErrReplyTargetNotFound)

	_, err := uc.Reply(context.Background(), domain.NewReplyInput{MessageID: "gone", ReplierID: "2", ReplyContent: "ok", ReceiverID: "1"})
	assert.ErrorIs(t, err, domain.ErrReplyTargetNotFound)
}

func TestDelete(t *testing.T) {
	uc, repo, pub := setup()
	repo.On("Delete", mock.Anything, "m1", "1").Return(nil).Once()
	repo.On("Delete", mock.Anything, "m1", "1").Return(domain.ErrNotFound)
	pub.On("Publish", mock.Anything, isEvent(domain.EventDeleted)).Return(nil)

	require.NoError(t, uc.Delete(context.Background(), "m1", "1"))
	assert.ErrorIs(t, uc.Delete(context.Background(), "m1", "1"), domain.ErrNotFound)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestUpdateStatus(t *testing.T) {
	uc, repo, pub := setup()
	repo.On("UpdateStatus", mock.Anything, "m1", "2", "1", domain.StatusRead).Return(true, nil).Once()
	repo.On("UpdateStatus", mock.Anything, "m1", "2", "1", domain.StatusRead).Return(false, nil)
	pub.On("Publish", mock.Anything, isEvent(domain.EventStatus)).Return(nil)

	u := domain.StatusUpdate{Status: domain.StatusRead, ActorID: "2", SenderID: "1"}
	updated, err := uc.UpdateStatus(context.Background(), "m1", u)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = uc.UpdateStatus(context.Background(), "m1", u)
	require.NoError(t, err)
	assert.False(t, updated)
	pub.AssertNumberOfCalls(t, "Publish", 1)

	_, err = uc.UpdateStatus(context.Background(), "m1", domain.StatusUpdate{Status: domain.StatusSent, ActorID: "2"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
