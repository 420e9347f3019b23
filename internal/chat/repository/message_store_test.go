package repository

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startStore(t *testing.T, register func(app *fiber.App)) string {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	register(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func TestHTTPMessageStore_CreateMessage(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	base := startStore(t, func(app *fiber.App) {
		app.Post("/send", func(c *fiber.Ctx) error {
			var in domain.NewMessageInput
			if err := c.BodyParser(&in); err != nil {
				return err
			}
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": domain.Message{
				ID: "m1", SenderID: in.SenderID, ReceiverID: in.ReceiverID,
				MessageContent: in.MessageContent, Timestamp: ts, Status: domain.StatusSent,
			}})
		})
	})

	store := NewHTTPMessageStore(base, time.Second)
	msg, err := store.CreateMessage(context.Background(), domain.NewMessageInput{SenderID: "a", ReceiverID: "b", MessageContent: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "hi", msg.MessageContent)
	assert.True(t, ts.Equal(msg.Timestamp))
}

func TestHTTPMessageStore_CreateReply(t *testing.T) {
	base := startStore(t, func(app *fiber.App) {
		app.Post("/reply", func(c *fiber.Ctx) error {
			var in domain.NewReplyInput
			if err := c.BodyParser(&in); err != nil {
				return err
			}
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reply": domain.Message{
				ID: "r1", SenderID: in.ReplierID, ReceiverID: in.ReceiverID, ReplyTo: in.MessageID,
			}})
		})
	})

	reply, err := NewHTTPMessageStore(base, time.Second).CreateReply(context.Background(),
		domain.NewReplyInput{MessageID: "m1", ReplierID: "b", ReceiverID: "a", ReplyContent: "yo"})
	require.NoError(t, err)
	assert.Equal(t, "m1", reply.ReplyTo)
}

func TestHTTPMessageStore_Errors(t *testing.T) {
	base := startStore(t, func(app *fiber.App) {
		app.Post("/send", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db down"})
		})
		app.Delete("/messages/:id", func(c *fiber.Ctx) error {
			if c.Query("senderId") != "a" {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "message not found"})
			}
			return c.JSON(fiber.Map{"deleted": true})
		})
	})
	store := NewHTTPMessageStore(base, time.Second)

	_, err := store.CreateMessage(context.Background(), domain.NewMessageInput{SenderID: "a", ReceiverID: "b", MessageContent: "x"})
	assert.ErrorContains(t, err, "db down")

	assert.NoError(t, store.DeleteMessage(context.Background(), "m1", "a"))
	assert.ErrorIs(t, store.DeleteMessage(context.Background(), "m1", "b"), domain.ErrNotFound)
}

func TestHTTPMessageStore_UpdateStatus(t *testing.T) {
	base := startStore(t, func(app *fiber.App) {
		app.Patch("/messages/:id/status", func(c *fiber.Ctx) error {
			var req statusRequest
			if err := c.BodyParser(&req); err != nil {
				return err
			}
			return c.JSON(fiber.Map{"updated": req.ActorID == "b" && req.Status == domain.StatusRead})
		})
	})
	store := NewHTTPMessageStore(base, time.Second)

	ok, err := store.UpdateStatus(context.Background(), "m1", "b", "a", domain.StatusRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.UpdateStatus(context.Background(), "m1", "a", "b", domain.StatusRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPMessageStore_Unreachable(t *testing.T) {
	store := NewHTTPMessageStore("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := store.CreateMessage(context.Background(), domain.NewMessageInput{SenderID: "a", ReceiverID: "b", MessageContent: "x"})
	assert.Error(t, err)
}

func TestHTTPMessageStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPMessageStore("http://127.0.0.1:1", time.Second).CreateMessage(ctx, domain.NewMessageInput{})
	assert.ErrorIs(t, err, context.Canceled)
}
