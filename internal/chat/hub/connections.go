package hub

import (
	"errors"
	"sync"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
)

// Conn transport-level connection the hub can write to
type Conn interface {
	ID() string
	Send(resp domain.WSResponse) error
}

// ErrConnNotFound connection is not (or no longer) registered
var ErrConnNotFound = errors.New("connection not found")

// Connections live connection directory of this node
type Connections struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewConnections create Connections
func NewConnections() *Connections {
	return &Connections{conns: make(map[string]Conn)}
}

// Add register a live connection
func (c *Connections) Add(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[conn.ID()] = conn
}

// Remove drop a connection, no-op if unknown
func (c *Connections) Remove(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, connID)
}

// Get find a connection
func (c *Connections) Get(connID string) (Conn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conn, ok := c.conns[connID]
	return conn, ok
}

// Count number of live connections
func (c *Connections) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.conns)
}

// Send write one event to one connection
func (c *Connections) Send(connID string, resp domain.WSResponse) error {
	conn, ok := c.Get(connID)
	if !ok {
		return ErrConnNotFound
	}
	return conn.Send(resp)
}

// SendMany write one event to each listed connection, return how many accepted it
func (c *Connections) SendMany(connIDs []string, resp domain.WSResponse) int {
	sent := 0
	for _, id := range connIDs {
		if err := c.Send(id, resp); err == nil {
			sent++
		}
	}
	return sent
}

// Broadcast write to every connection except the listed ones
func (c *Connections) Broadcast(resp domain.WSResponse, except ...string) int {
	c.mu.RLock()
	targets := make([]Conn, 0, len(c.conns))
	for id, conn := range c.conns {
		if contains(except, id) {
			continue
		}
		targets = append(targets, conn)
	}
	c.mu.RUnlock()

	sent := 0
	for _, conn := range targets {
		if err := conn.Send(resp); err == nil {
			sent++
		}
	}
	return sent
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
