package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"

	"github.com/gofiber/fiber/v2"
)

// MessageStore durable message service used by the gateway
type MessageStore interface {
	CreateMessage(ctx context.Context, in domain.NewMessageInput) (domain.Message, error)
	CreateReply(ctx context.Context, in domain.NewReplyInput) (domain.Message, error)
	// DeleteMessage delete messageID when it was sent by senderID, domain.ErrNotFound otherwise
	DeleteMessage(ctx context.Context, messageID, senderID string) error
	// UpdateStatus move the status forward. actorID must be the receiver, expectSenderID the sender
	// (empty skips the sender check). updated=false when the move is not forward.
	UpdateStatus(ctx context.Context, messageID, actorID, expectSenderID string, status domain.MessageStatus) (bool, error)
}

type httpMessageStore struct {
	baseURL string
	timeout time.Duration
}

// NewHTTPMessageStore message service client over its REST API
func NewHTTPMessageStore(baseURL string, timeout time.Duration) MessageStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpMessageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

type messageResponse struct {
	Message domain.Message `json:"message"`
	Reply   domain.Message `json:"reply"`
	Deleted bool           `json:"deleted"`
	Updated bool           `json:"updated"`
	Error   string         `json:"error"`
}

type statusRequest struct {
	Status   domain.MessageStatus `json:"status"`
	ActorID  string               `json:"actorId"`
	SenderID string               `json:"senderId,omitempty"`
}

func (s *httpMessageStore) CreateMessage(ctx context.Context, in domain.NewMessageInput) (domain.Message, error) {
	resp, err := s.do(ctx, fiber.Post(s.baseURL+"/send").JSON(in))
	if err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	return resp.Message, nil
}

func (s *httpMessageStore) CreateReply(ctx context.Context, in domain.NewReplyInput) (domain.Message, error) {
	resp, err := s.do(ctx, fiber.Post(s.baseURL+"/reply").JSON(in))
	if err != nil {
		return domain.Message{}, fmt.Errorf("create reply: %w", err)
	}
	return resp.Reply, nil
}

func (s *httpMessageStore) DeleteMessage(ctx context.Context, messageID, senderID string) error {
	u := fmt.Sprintf("%s/messages/%s?senderId=%s", s.baseURL, url.PathEscape(messageID), url.QueryEscape(senderID))
	if _, err := s.do(ctx, fiber.Delete(u)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (s *httpMessageStore) UpdateStatus(ctx context.Context, messageID, actorID, expectSenderID string, status domain.MessageStatus) (bool, error) {
	u := fmt.Sprintf("%s/messages/%s/status", s.baseURL, url.PathEscape(messageID))
	resp, err := s.do(ctx, fiber.Patch(u).JSON(statusRequest{Status: status, ActorID: actorID, SenderID: expectSenderID}))
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	return resp.Updated, nil
}

// do run the request with the client timeout, capped by the ctx deadline
func (s *httpMessageStore) do(ctx context.Context, a *fiber.Agent) (messageResponse, error) {
	var out messageResponse

	if err := ctx.Err(); err != nil {
		return out, err
	}
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	code, body, errs := a.Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return out, errors.Join(errs...)
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return out, fmt.Errorf("decode response (%d): %w", code, err)
		}
	}

	switch {
	case code == fiber.StatusNotFound:
		return out, domain.ErrNotFound
	case code >= 400:
		if out.Error == "" {
			out.Error = fmt.Sprintf("message service returned %d", code)
		}
		return out, errors.New(out.Error)
	}
	return out, nil
}
