package router

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	chatdomain "github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	chatrepo "github.com/AsemAbuOthman/Forsah-sub000/internal/chat/repository"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/app"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/handlers"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(repo *app.MockMessageRepository, authEnabled bool) *fiber.App {
	logger.SetNewNop()
	r := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterRoutes(r, handlers.NewMessageHandler(app.NewMessageUseCase(repo, nil)), authEnabled)
	return r
}

func TestRoutes_AuthToggle(t *testing.T) {
	repo := new(app.MockMessageRepository)
	repo.On("Contacts", mock.Anything, "1").Return([]domain.Contact{}, nil)

	resp, err := newRouter(repo, true).Test(httptest.NewRequest("GET", "/contacts/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = newRouter(repo, false).Test(httptest.NewRequest("GET", "/contacts/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = newRouter(repo, true).Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// gateway HTTP client against the real routes
func TestRoutes_GatewayClientContract(t *testing.T) {
	repo := new(app.MockMessageRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateReply", mock.Anything, mock.Anything, "m0").Return(nil)
	repo.On("CreateReply", mock.Anything, mock.Anything, "gone").Return(domain.ErrReplyTargetNotFound)
	repo.On("Delete", mock.Anything, "m1", "1").Return(domain.ErrNotFound)
	repo.On("UpdateStatus", mock.Anything, "m1", "2", "1", domain.StatusDelivered).Return(true, nil)

	r := newRouter(repo, true)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = r.Listener(ln) }()
	t.Cleanup(func() { _ = r.Shutdown() })

	store := chatrepo.NewHTTPMessageStore("http://"+ln.Addr().String(), 3*time.Second)
	ctx := context.Background()

	msg, err := store.CreateMessage(ctx, chatdomain.NewMessageInput{SenderID: "1", ReceiverID: "2", MessageContent: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, chatdomain.StatusSent, msg.Status)

	reply, err := store.CreateReply(ctx, chatdomain.NewReplyInput{MessageID: "m0", ReplierID: "2", ReplyContent: "ok", ReceiverID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "m0", reply.ReplyTo)

	_, err = store.CreateReply(ctx, chatdomain.NewReplyInput{MessageID: "gone", ReplierID: "2", ReplyContent: "ok", ReceiverID: "1"})
	assert.ErrorContains(t, err, "original message not found")

	assert.ErrorIs(t, store.DeleteMessage(ctx, "m1", "1"), chatdomain.ErrNotFound)

	updated, err := store.UpdateStatus(ctx, "m1", "2", "1", chatdomain.StatusDelivered)
	require.NoError(t, err)
	assert.True(t, updated)
}
