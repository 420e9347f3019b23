package hub

import (
	"sort"
	"sync"
)

// Presence bidirectional user <-> connection registry.
//
// multiDevice=true keeps every live connection of a user. multiDevice=false keeps only the
// last registered one: the previous connection loses its user in both directions.
type Presence struct {
	mu          sync.RWMutex
	multiDevice bool
	seq         uint64
	byUser      map[string]map[string]uint64 // userID -> connID -> register order
	byConn      map[string]string
}

// NewPresence create Presence
func NewPresence(multiDevice bool) *Presence {
	return &Presence{
		multiDevice: multiDevice,
		byUser:      make(map[string]map[string]uint64),
		byConn:      make(map[string]string),
	}
}

// Register bind connID to userID. cameOnline is true when the user had no connection before.
// displaced lists connections that lost their user (single-device mode).
func (p *Presence) Register(userID, connID string) (cameOnline bool, displaced []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.byConn[connID]; ok && prev != userID {
		p.removeLocked(prev, connID)
	}

	conns, ok := p.byUser[userID]
	cameOnline = !ok || len(conns) == 0
	if !ok {
		conns = make(map[string]uint64)
		p.byUser[userID] = conns
	}

	if !p.multiDevice {
		for id := range conns {
			if id == connID {
				continue
			}
			delete(conns, id)
			delete(p.byConn, id)
			displaced = append(displaced, id)
		}
	}

	p.seq++
	conns[connID] = p.seq
	p.byConn[connID] = userID
	return cameOnline, displaced
}

// Unregister drop connID. wentOffline is true when it was the user's last connection.
func (p *Presence) Unregister(connID string) (userID string, wentOffline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.byConn[connID]
	if !ok {
		return "", false
	}
	return userID, p.removeLocked(userID, connID)
}

func (p *Presence) removeLocked(userID, connID string) bool {
	delete(p.byConn, connID)
	conns := p.byUser[userID]
	delete(conns, connID)
	if len(conns) == 0 {
		delete(p.byUser, userID)
		return true
	}
	return false
}

// LookupConnection most recently registered connection of the user
func (p *Presence) LookupConnection(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var (
		latest string
		newest uint64
	)
	for id, order := range p.byUser[userID] {
		if order > newest {
			latest, newest = id, order
		}
	}
	return latest, latest != ""
}

// LookupUser user bound to the connection
func (p *Presence) LookupUser(connID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	userID, ok := p.byConn[connID]
	return userID, ok
}

// IsOnline user has at least one connection
func (p *Presence) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byUser[userID]) > 0
}

// Connections every connection of the user, oldest first
func (p *Presence) Connections(userID string) []string {
	p.mu.RLock()
	conns := p.byUser[userID]
	ids := make([]string, 0, len(conns))
	for id := range conns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return conns[ids[i]] < conns[ids[j]] })
	p.mu.RUnlock()
	return ids
}

// Users online users, sorted
func (p *Presence) Users() []string {
	p.mu.RLock()
	users := make([]string, 0, len(p.byUser))
	for id := range p.byUser {
		users = append(users, id)
	}
	p.mu.RUnlock()
	sort.Strings(users)
	return users
}
