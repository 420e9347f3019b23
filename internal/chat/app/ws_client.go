package app

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var (
	// ErrClientClosed write after the connection closed
	ErrClientClosed = errors.New("client closed")
	// ErrSendBufferFull slow client, frame dropped
	ErrSendBufferFull = errors.New("send buffer full")
)

// wsClient one websocket connection. Frames are queued on send and written by writePump only.
// conn is pooled by fiber once the handler returns, so the handler must wait on stopped first.
type wsClient struct {
	id      string
	conn    *websocket.Conn
	send    chan domain.WSResponse
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newWSClient(id string, conn *websocket.Conn, buffer int) *wsClient {
	if buffer <= 0 {
		buffer = 64
	}
	return &wsClient{
		id:   id,
		conn: conn,
		send:    make(chan domain.WSResponse, buffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (c *wsClient) ID() string { return c.id }

// Send queue resp without blocking
func (c *wsClient) Send(resp domain.WSResponse) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- resp:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		logger.Log.Warn("send buffer full, frame dropped", zap.String("conn_id", c.id), zap.String("action", resp.Action))
		return ErrSendBufferFull
	}
}

func (c *wsClient) close() {
	c.once.Do(func() { close(c.done) })
}

// wait block until writePump returned
func (c *wsClient) wait() {
	<-c.stopped
}

func (c *wsClient) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// writePump 唯一寫入 websocket 的 goroutine, 同時定期發送 Ping
func (c *wsClient) writePump(pingInterval time.Duration) {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer close(c.stopped)

	for {
		// done 優先, 關閉後不再寫入任何 frame
		if c.closed() {
			return
		}

		select {
		case resp := <-c.send:
			if c.closed() {
				return
			}
			b, err := json.Marshal(resp)
			if err != nil {
				logger.Log.Error("marshal frame failed", zap.String("conn_id", c.id), zap.Error(err))
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				logger.Log.Warn("write message error", zap.String("conn_id", c.id), zap.Error(err))
				c.close()
				return
			}
		case <-ticker.C:
			if c.closed() {
				return
			}
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				logger.Log.Warn("ping error", zap.String("conn_id", c.id), zap.Error(err))
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}
