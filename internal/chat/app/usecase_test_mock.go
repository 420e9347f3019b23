package app

import (
	"context"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageStore Mock repository.MessageStore
type MockMessageStore struct {
	mock.Mock
}

// CreateMessage mock create message
func (m *MockMessageStore) CreateMessage(ctx context.Context, in domain.NewMessageInput) (domain.Message, error) {
	args := m.Called(ctx, in)
	if fn, ok := args.Get(0).(func(context.Context, domain.NewMessageInput) domain.Message); ok {
		return fn(ctx, in), args.Error(1)
	}
	return args.Get(0).(domain.Message), args.Error(1)
}

// CreateReply mock create reply
func (m *MockMessageStore) CreateReply(ctx context.Context, in domain.NewReplyInput) (domain.Message, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Message), args.Error(1)
}

// DeleteMessage mock delete message
func (m *MockMessageStore) DeleteMessage(ctx context.Context, messageID, senderID string) error {
	return m.Called(ctx, messageID, senderID).Error(0)
}

// UpdateStatus mock update status
func (m *MockMessageStore) UpdateStatus(ctx context.Context, messageID, actorID, expectSenderID string, status domain.MessageStatus) (bool, error) {
	args := m.Called(ctx, messageID, actorID, expectSenderID, status)
	return args.Bool(0), args.Error(1)
}

// MockPresenceRepository Mock repository.PresenceRepository
type MockPresenceRepository struct {
	mock.Mock
}

// SetOnline mock set online
func (m *MockPresenceRepository) SetOnline(ctx context.Context, session domain.PresenceSession) error {
	return m.Called(ctx, session).Error(0)
}

// Refresh mock refresh ttl
func (m *MockPresenceRepository) Refresh(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// SetOffline mock set offline
func (m *MockPresenceRepository) SetOffline(ctx context.Context, userID, nodeID string) error {
	return m.Called(ctx, userID, nodeID).Error(0)
}

// IsOnline mock is online
func (m *MockPresenceRepository) IsOnline(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockRelay Mock repository.Relay
type MockRelay struct {
	mock.Mock
}

// Publish mock publish
func (m *MockRelay) Publish(ctx context.Context, env domain.RelayEnvelope) error {
	return m.Called(ctx, env).Error(0)
}

// Subscribe mock subscribe
func (m *MockRelay) Subscribe(ctx context.Context, handler func(env domain.RelayEnvelope)) error {
	return m.Called(ctx, handler).Error(0)
}
