package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/app"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/middlewares"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApp(repo *app.MockMessageRepository) *fiber.App {
	logger.SetNewNop()
	token.SetSecret("handler-test-secret")
	h := NewMessageHandler(app.NewMessageUseCase(repo, nil))

	r := fiber.New()
	r.Get("/", ConnectCheck)
	r.Post("/debug", DebugLogFlag)
	r.Post("/send", h.Send)
	r.Post("/reply", h.Reply)
	r.Delete("/messages/:id", h.Delete)
	r.Patch("/messages/:id/status", h.UpdateStatus)
	r.Get("/history/:senderId/:receiverId", middlewares.JWTMiddleware(), h.History)
	r.Get("/contacts/:userId", h.Contacts)
	return r
}

func do(t *testing.T, r *fiber.App, method, path, body string, headers ...string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := r.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestConnectCheckAndDebug(t *testing.T) {
	r := newApp(new(app.MockMessageRepository))

	code, body := do(t, r, "GET", "/", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "message service start!", body)

	code, _ = do(t, r, "POST", "/debug?status=true", "")
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = do(t, r, "POST", "/debug?status=maybe", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestSend(t *testing.T) {
	repo := new(app.MockMessageRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	r := newApp(repo)

	code, body := do(t, r, "POST", "/send", `{"senderId":"1","receiverId":"2","messageContent":"hi"}`)
	require.Equal(t, fiber.StatusCreated, code, body)
	var out struct {
		Message domain.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "hi", out.Message.MessageContent)
	assert.Equal(t, domain.StatusSent, out.Message.Status)

	code, body = do(t, r, "POST", "/send", `{"senderId":"1","receiverId":"2","messageContent":"hi"}`)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Contains(t, body, "db down")

	code, body = do(t, r, "POST", "/send", `{"senderId":"1","messageContent":"hi"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"receiverId is required"}`, body)

	code, _ = do(t, r, "POST", "/send", `{broken`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestReply_TargetMissing(t *testing.T) {
	repo := new(app.MockMessageRepository)
	repo.On("CreateReply", mock.Anything, mock.Anything, "gone").Return(domain.ErrReplyTargetNotFound)
	r := newApp(repo)

	code, body := do(t, r, "POST", "/reply", `{"messageId":"gone","replierId":"2","replyContent":"ok","receiverId":"1"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.JSONEq(t, `{"error":"original message not found"}`, body)
}

func TestDeleteAndStatus(t *testing.T) {
	repo := new(app.MockMessageRepository)
	repo.On("Delete", mock.Anything, "m1", "1").Return(nil)
	repo.On("Delete", mock.Anything, "m2", "1").Return(domain.ErrNotFound)
	repo.On("UpdateStatus", mock.Anything, "m1", "2", "1", domain.StatusRead).Return(true, nil)
	r := newApp(repo)

	code, body := do(t, r, "DELETE", "/messages/m1?senderId=1", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"deleted":true}`, body)

	code, _ = do(t, r, "DELETE", "/messages/m2?senderId=1", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, body = do(t, r, "PATCH", "/messages/m1/status", `{"status":"read","actorId":"2","senderId":"1"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"updated":true}`, body)

	code, _ = do(t, r, "PATCH", "/messages/m1/status", `{"status":"sent","actorId":"2"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestHistory_ParticipantOnly(t *testing.T) {
	repo := new(app.MockMessageRepository)
	repo.On("History", mock.Anything, "1", "2", 20).Return([]domain.Message{{ID: "m1", SenderID: "1", ReceiverID: "2"}}, nil)
	r := newApp(repo)

	code, _ := do(t, r, "GET", "/history/1/2", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	outsider, err := token.GenerateJWT("9", string(token.RoleClient), "test")
	require.NoError(t, err)
	code, _ = do(t, r, "GET", "/history/1/2", "", "Authorization", "Bearer "+outsider)
	assert.Equal(t, fiber.StatusForbidden, code)

	member, err := token.GenerateJWT("2", string(token.RoleFreelancer), "test")
	require.NoError(t, err)
	code, body := do(t, r, "GET", "/history/1/2?limit=20", "", "Authorization", "Bearer "+member)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, `"id":"m1"`)
}

func TestContacts_NoAuth(t *testing.T) {
	repo := new(app.MockMessageRepository)
	repo.On("Contacts", mock.Anything, "1").Return([]domain.Contact{{UserID: "2", UnreadCount: 3}}, nil)
	r := newApp(repo)

	code, body := do(t, r, "GET", "/contacts/1", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, `"unreadCount":3`)
}
