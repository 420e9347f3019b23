package hub

import (
	"fmt"
	"sync"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultMaxConversations = 10000
	defaultMaxPerConv       = 200
)

// CacheOutcome result of a cached status update
type CacheOutcome int

const (
	// CacheMiss message not cached
	CacheMiss CacheOutcome = iota
	// CacheRejected cached, but the sender does not match or the status would move backwards
	CacheRejected
	// CacheUpdated status changed
	CacheUpdated
)

// MessageCache recent messages per conversation, used only for receipt bookkeeping.
// Conversations are evicted LRU; each conversation keeps its newest perConv messages.
type MessageCache struct {
	mu      sync.Mutex
	convs   *lru.Cache[string, []domain.Message]
	perConv int
}

// NewMessageCache create MessageCache, zero values fall back to defaults
func NewMessageCache(maxConversations, perConversation int) (*MessageCache, error) {
	if maxConversations <= 0 {
		maxConversations = defaultMaxConversations
	}
	if perConversation <= 0 {
		perConversation = defaultMaxPerConv
	}

	convs, err := lru.New[string, []domain.Message](maxConversations)
	if err != nil {
		return nil, fmt.Errorf("create message cache: %w", err)
	}
	return &MessageCache{convs: convs, perConv: perConversation}, nil
}

// Append add msg to the conversation, dropping the oldest beyond the cap
func (c *MessageCache) Append(conversationID string, msg domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, _ := c.convs.Get(conversationID)
	msgs = append(msgs, msg)
	if over := len(msgs) - c.perConv; over > 0 {
		msgs = append([]domain.Message(nil), msgs[over:]...)
	}
	c.convs.Add(conversationID, msgs)
}

// Find cached message by id
func (c *MessageCache) Find(conversationID, messageID string) (domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, _ := c.convs.Peek(conversationID)
	for _, m := range msgs {
		if m.ID == messageID {
			return m, true
		}
	}
	return domain.Message{}, false
}

// Check report what UpdateStatus would do without changing anything
func (c *MessageCache) Check(conversationID, messageID, expectSenderID string, status domain.MessageStatus) CacheOutcome {
	m, ok := c.Find(conversationID, messageID)
	if !ok {
		return CacheMiss
	}
	if m.SenderID != expectSenderID || !m.Status.CanTransition(status) {
		return CacheRejected
	}
	return CacheUpdated
}

// UpdateStatus move the message to status when its sender is expectSenderID and the move is forward
func (c *MessageCache) UpdateStatus(conversationID, messageID, expectSenderID string, status domain.MessageStatus) CacheOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, _ := c.convs.Peek(conversationID)
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		if msgs[i].SenderID != expectSenderID || !msgs[i].Status.CanTransition(status) {
			return CacheRejected
		}
		msgs[i].Status = status
		return CacheUpdated
	}
	return CacheMiss
}

// Remove drop the message, false if it was not cached
func (c *MessageCache) Remove(conversationID, messageID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, ok := c.convs.Peek(conversationID)
	if !ok {
		return false
	}
	for i := range msgs {
		if msgs[i].ID == messageID {
			kept := append(append([]domain.Message(nil), msgs[:i]...), msgs[i+1:]...)
			c.convs.Add(conversationID, kept)
			return true
		}
	}
	return false
}

// Len cached messages of the conversation
func (c *MessageCache) Len(conversationID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs, _ := c.convs.Peek(conversationID)
	return len(msgs)
}

// Conversations cached conversation count
func (c *MessageCache) Conversations() int {
	return c.convs.Len()
}
