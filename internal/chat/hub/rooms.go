package hub

import (
	"sort"
	"sync"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
)

// Rooms conversation room membership index
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]struct{} // conversationID -> connIDs
	byConn map[string]map[string]struct{} // connID -> conversationIDs
	conns  *Connections
}

// NewRooms create Rooms delivering through conns
func NewRooms(conns *Connections) *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
		conns:  conns,
	}
}

// Join add connID to the room, creating it if needed. Joining twice is a no-op.
func (r *Rooms) Join(conversationID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[conversationID]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[conversationID] = members
	}
	if _, joined := members[connID]; joined {
		return false
	}
	members[connID] = struct{}{}

	joined, ok := r.byConn[connID]
	if !ok {
		joined = make(map[string]struct{})
		r.byConn[connID] = joined
	}
	joined[conversationID] = struct{}{}
	return true
}

// Leave remove connID from every room it joined, return those rooms
func (r *Rooms) Leave(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := r.byConn[connID]
	left := make([]string, 0, len(joined))
	for conv := range joined {
		members := r.rooms[conv]
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, conv)
		}
		left = append(left, conv)
	}
	delete(r.byConn, connID)
	sort.Strings(left)
	return left
}

// Members connections currently in the room, sorted
func (r *Rooms) Members(conversationID string) []string {
	r.mu.RLock()
	members := r.rooms[conversationID]
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Broadcast deliver resp to every member of the room, return how many accepted it
func (r *Rooms) Broadcast(conversationID string, resp domain.WSResponse) int {
	return r.conns.SendMany(r.Members(conversationID), resp)
}
