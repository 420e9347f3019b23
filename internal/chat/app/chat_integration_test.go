package app

import (
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/hub"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Action    string          `json:"action"`
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Payload   json.RawMessage `json:"payload"`
	Error     string          `json:"error"`
}

// startChatServer 啟動 fiber websocket server on a random local port
func startChatServer(t *testing.T, store *MockMessageStore) string {
	t.Helper()
	logger.SetNewNop()

	cache, err := hub.NewMessageCache(0, 0)
	require.NoError(t, err)
	gateway := NewGatewayUseCase("node-test", hub.NewPresence(true), cache, store, NewJWTValidator(false))
	handler := NewChatWebsocketHandler(gateway, time.Minute, 32)

	chatApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	chatApp.Get("/ws", websocket.New(handler.HandleConnection))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = chatApp.Listener(ln) }()
	t.Cleanup(func() { _ = chatApp.Shutdown() })

	return "ws://" + ln.Addr().String() + "/ws"
}

func dial(t *testing.T, url string) *gws.Conn {
	t.Helper()
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "WebSocket 連線失敗")
	t.Cleanup(func() { conn.Close() })
	return conn
}

func write(t *testing.T, conn *gws.Conn, raw string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(gws.TextMessage, []byte(raw)))
}

// readAction read frames until one with action arrives
func readAction(t *testing.T, conn *gws.Conn, action string) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, b, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for "+action)
		var f frame
		require.NoError(t, json.Unmarshal(b, &f))
		if f.Action == action {
			return f
		}
	}
}

func authenticate(t *testing.T, conn *gws.Conn, userID string) {
	t.Helper()
	write(t, conn, `{"action":"authenticate","payload":{"userId":"`+userID+`","token":"t"}}`)
	readAction(t, conn, "authenticated")
}

func TestWebsocket_SendMessageFlow(t *testing.T) {
	store := new(MockMessageStore)
	url := startChatServer(t, store)

	a, b := dial(t, url), dial(t, url)
	authenticate(t, a, "A")
	authenticate(t, b, "B")

	write(t, a, `{"action":"join_conversation","payload":{"userId":"A","contactId":"B"}}`)
	write(t, b, `{"action":"join_conversation","payload":{"userId":"B","contactId":"A"}}`)

	msg := domain.Message{ID: "m1", SenderID: "A", ReceiverID: "B", MessageContent: "hello", Status: domain.StatusSent,
		Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.On("CreateMessage", mock.Anything, domain.NewMessageInput{SenderID: "A", ReceiverID: "B", MessageContent: "hello"}).Return(msg, nil)

	// join has no response, a ping round trip keeps ordering
	write(t, b, `{"action":"get_online_status","request_id":"sync","payload":{"userId":"A"}}`)
	readAction(t, b, "get_online_status")

	write(t, a, `{"action":"send_message","request_id":"r1","payload":{"senderId":"A","receiverId":"B","messageContent":"hello"}}`)

	ack := readAction(t, a, "send_message")
	assert.Equal(t, "r1", ack.RequestID)
	assert.True(t, ack.Success)
	var body struct {
		Status  string         `json:"status"`
		Message domain.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(ack.Payload, &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "m1", body.Message.ID)

	got := readAction(t, b, "new_message")
	var pushed domain.Message
	require.NoError(t, json.Unmarshal(got.Payload, &pushed))
	assert.Equal(t, "hello", pushed.MessageContent)
	assert.Equal(t, domain.StatusSent, pushed.Status)
}

func TestWebsocket_StoreFailureAck(t *testing.T) {
	store := new(MockMessageStore)
	url := startChatServer(t, store)
	store.On("CreateMessage", mock.Anything, mock.Anything).Return(domain.Message{}, errors.New("message service unavailable"))

	a := dial(t, url)
	authenticate(t, a, "A")
	write(t, a, `{"action":"send_message","request_id":"r2","payload":{"senderId":"A","receiverId":"B","messageContent":"hi"}}`)

	ack := readAction(t, a, "send_message")
	assert.False(t, ack.Success)
	assert.Equal(t, "message service unavailable", ack.Error)
}

func TestWebsocket_ErrorFrames(t *testing.T) {
	url := startChatServer(t, new(MockMessageStore))
	c := dial(t, url)

	cases := []struct {
		name string
		raw  string
		code domain.ErrorCode
	}{
		{"malformed", `{not json`, domain.CodeInvalidArgument},
		{"unknown action", `{"action":"fly","request_id":"x"}`, domain.CodeUnknownAction},
		{"missing field", `{"action":"send_message","payload":{"senderId":"A"}}`, domain.CodeInvalidArgument},
		{"unauthenticated", `{"action":"join_conversation","payload":{"userId":"A","contactId":"B"}}`, domain.CodeUnauthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			write(t, c, tc.raw)
			f := readAction(t, c, "error")
			var wsErr domain.WSError
			require.NoError(t, json.Unmarshal(f.Payload, &wsErr))
			assert.Equal(t, tc.code, wsErr.Code)
			assert.NotEmpty(t, f.Error)
		})
	}

	require.NoError(t, c.WriteMessage(gws.BinaryMessage, []byte{1, 2}))
	f := readAction(t, c, "error")
	assert.True(t, strings.Contains(f.Error, "binary"))
}

func TestWebsocket_NumericIDsAndPresence(t *testing.T) {
	url := startChatServer(t, new(MockMessageStore))
	a, b := dial(t, url), dial(t, url)

	write(t, a, `{"action":"authenticate","payload":{"userId":42}}`)
	f := readAction(t, a, "authenticated")
	assert.JSONEq(t, `{"userId":"42"}`, string(f.Payload))

	authenticate(t, b, "7")
	write(t, b, `{"action":"get_online_status","request_id":"q","payload":{"userId":42}}`)
	f = readAction(t, b, "get_online_status")
	assert.JSONEq(t, `{"userId":"42","isOnline":true}`, string(f.Payload))

	require.NoError(t, a.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, "bye")))
	f = readAction(t, b, "user_offline")
	assert.JSONEq(t, `{"userId":"42"}`, string(f.Payload))
}

func TestWebsocket_CloseWithQueuedFrames(t *testing.T) {
	url := startChatServer(t, new(MockMessageStore))
	b := dial(t, url)
	authenticate(t, b, "B")

	for i := 0; i < 30; i++ {
		a, _, err := gws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		authenticate(t, a, "A")
		for j := 0; j < 20; j++ {
			write(t, b, `{"action":"typing","payload":{"receiverId":"A","isTyping":true}}`)
		}
		a.Close()
	}

	// later sockets may reuse pooled conns, none of A's frames may reach them
	c := dial(t, url)
	authenticate(t, c, "C")
	write(t, c, `{"action":"get_online_status","request_id":"q","payload":{"userId":"C"}}`)

	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, raw, err := c.ReadMessage()
		require.NoError(t, err)
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		assert.NotEqual(t, "typing", f.Action)
		if f.Action == "get_online_status" {
			assert.JSONEq(t, `{"userId":"C","isOnline":true}`, string(f.Payload))
			break
		}
	}
}
