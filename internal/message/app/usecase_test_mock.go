package app

import (
	"context"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// AutoMigrate mock
func (m *MockMessageRepository) AutoMigrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Create mock
func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// CreateReply mock
func (m *MockMessageRepository) CreateReply(ctx context.Context, reply *domain.Message, originalID string) error {
	return m.Called(ctx, reply, originalID).Error(0)
}

// Delete mock
func (m *MockMessageRepository) Delete(ctx context.Context, messageID, senderID string) error {
	return m.Called(ctx, messageID, senderID).Error(0)
}

// UpdateStatus mock
func (m *MockMessageRepository) UpdateStatus(ctx context.Context, messageID, actorID, expectSenderID string, status domain.MessageStatus) (bool, error) {
	args := m.Called(ctx, messageID, actorID, expectSenderID, status)
	return args.Bool(0), args.Error(1)
}

// History mock
func (m *MockMessageRepository) History(ctx context.Context, a, b string, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, a, b, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

// Contacts mock
func (m *MockMessageRepository) Contacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

// MockEventPublisher Mock repository.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// Publish mock
func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

// Close mock
func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}
