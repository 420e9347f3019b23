package app

import (
	"context"
	"errors"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/hub"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/repository"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"go.uber.org/zap"
)

// GatewayUseCase realtime gateway: connection lifecycle and chat events.
//
// A connection is unauthenticated until Authenticate binds it to a user in the presence
// registry, and is gone after Disconnect. Every store call happens before any fan-out, so a
// failed call leaves the rooms and the cache untouched.
type GatewayUseCase struct {
	nodeID string

	conns    *hub.Connections
	presence *hub.Presence
	rooms    *hub.Rooms
	cache    *hub.MessageCache

	store repository.MessageStore
	auth  TokenValidator

	presenceRepo repository.PresenceRepository
	relay        repository.Relay
}

// NewGatewayUseCase create GatewayUseCase
func NewGatewayUseCase(
	nodeID string,
	presence *hub.Presence,
	cache *hub.MessageCache,
	store repository.MessageStore,
	auth TokenValidator,
) *GatewayUseCase {
	conns := hub.NewConnections()
	return &GatewayUseCase{
		nodeID:   nodeID,
		conns:    conns,
		presence: presence,
		rooms:    hub.NewRooms(conns),
		cache:    cache,
		store:    store,
		auth:     auth,
	}
}

// WithRedis share presence and fan-out with other gateway nodes
func (uc *GatewayUseCase) WithRedis(presenceRepo repository.PresenceRepository, relay repository.Relay) *GatewayUseCase {
	uc.presenceRepo = presenceRepo
	uc.relay = relay
	return uc
}

// Start subscribe to the relay until ctx is done
func (uc *GatewayUseCase) Start(ctx context.Context) error {
	if uc.relay == nil {
		return nil
	}
	return uc.relay.Subscribe(ctx, uc.HandleRelay)
}

// ConnectionCount live connections on this node
func (uc *GatewayUseCase) ConnectionCount() int {
	return uc.conns.Count()
}

// OnlineUsers users with a connection on this node
func (uc *GatewayUseCase) OnlineUsers() []string {
	return uc.presence.Users()
}

// Connect register a new, unauthenticated connection
func (uc *GatewayUseCase) Connect(conn hub.Conn) {
	uc.conns.Add(conn)
	logger.Log.Debug("connection opened", zap.String("conn_id", conn.ID()))
}

// Authenticate bind the connection to p.UserID. Emits authenticated or authentication_error
// to the caller; the connection stays usable after a failure.
func (uc *GatewayUseCase) Authenticate(ctx context.Context, connID string, p domain.AuthenticatePayload) error {
	userID := p.UserID.String()

	if current, ok := uc.presence.LookupUser(connID); ok && current != userID {
		uc.reject(connID, domain.ErrAlreadyAuthenticated)
		return domain.ErrAlreadyAuthenticated
	}

	if err := uc.auth.Validate(ctx, userID, p.Token); err != nil {
		uc.reject(connID, err)
		return err
	}

	cameOnline, displaced := uc.presence.Register(userID, connID)
	for _, id := range displaced {
		uc.rooms.Leave(id)
		logger.Log.Info("connection displaced by a newer login", zap.String("conn_id", id), zap.String("user_id", userID))
	}

	if err := uc.conns.Send(connID, domain.Event(domain.Authenticated, domain.UserEvent{UserID: userID})); err != nil {
		logger.Log.Warn("authenticated not delivered", zap.String("conn_id", connID), zap.Error(err))
	}

	if cameOnline {
		uc.toAll(domain.Event(domain.UserOnline, domain.UserEvent{UserID: userID}), connID)
	}
	uc.savePresence(ctx, userID)
	return nil
}

func (uc *GatewayUseCase) reject(connID string, err error) {
	resp := domain.WSResponse{Action: string(domain.AuthenticationError), Error: err.Error()}
	if sendErr := uc.conns.Send(connID, resp); sendErr != nil {
		logger.Log.Warn("authentication_error not delivered", zap.String("conn_id", connID), zap.Error(sendErr))
	}
}

// caller authenticated user of the connection, expectUser must match when set
func (uc *GatewayUseCase) caller(connID string, expectUser domain.ID) (string, error) {
	userID, ok := uc.presence.LookupUser(connID)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	if expectUser != "" && expectUser.String() != userID {
		return "", domain.ErrUserMismatch
	}
	return userID, nil
}

// JoinConversation subscribe the connection to the room of (userId, contactId)
func (uc *GatewayUseCase) JoinConversation(connID string, p domain.JoinConversationPayload) error {
	userID, err := uc.caller(connID, p.UserID)
	if err != nil {
		return err
	}
	uc.rooms.Join(hub.ConversationID(userID, p.ContactID.String()), connID)
	return nil
}

// SendMessage persist then broadcast new_message to the conversation room
func (uc *GatewayUseCase) SendMessage(ctx context.Context, connID string, p domain.SendMessagePayload) domain.Ack {
	senderID, err := uc.caller(connID, p.SenderID)
	if err != nil {
		return domain.ErrorAck(domain.AsWSError(err).Message)
	}

	msg, err := uc.store.CreateMessage(ctx, domain.NewMessageInput{
		SenderID:       senderID,
		ReceiverID:     p.ReceiverID.String(),
		MessageContent: p.MessageContent,
	})
	if err != nil {
		logger.Log.Error("send_message store failed", zap.String("conn_id", connID), zap.Error(err))
		return domain.ErrorAck(err.Error())
	}
	normalize(&msg)

	conv := hub.ConversationID(msg.SenderID, msg.ReceiverID)
	uc.cache.Append(conv, msg)
	uc.toRoom(conv, domain.Event(domain.NewMessage, msg))

	return domain.Ack{Status: domain.AckSuccess, Message: msg}
}

// SendReply persist then broadcast new_reply to the conversation room
func (uc *GatewayUseCase) SendReply(ctx context.Context, connID string, p domain.SendReplyPayload) domain.Ack {
	replierID, err := uc.caller(connID, p.ReplierID)
	if err != nil {
		return domain.ErrorAck(domain.AsWSError(err).Message)
	}

	reply, err := uc.store.CreateReply(ctx, domain.NewReplyInput{
		MessageID:    p.MessageID.String(),
		ReplierID:    replierID,
		ReplyContent: p.ReplyContent,
		ReceiverID:   p.ReceiverID.String(),
	})
	if err != nil {
		logger.Log.Error("send_reply store failed", zap.String("conn_id", connID), zap.Error(err))
		return domain.ErrorAck(err.Error())
	}
	normalize(&reply)
	if reply.ReplyTo == "" {
		reply.ReplyTo = p.MessageID.String()
	}

	conv := hub.ConversationID(replierID, p.ReceiverID.String())
	uc.cache.Append(conv, reply)
	uc.toRoom(conv, domain.Event(domain.NewReply, reply))

	return domain.Ack{Status: domain.AckSuccess, Reply: reply}
}

func normalize(m *domain.Message) {
	if m.Status == "" {
		m.Status = domain.StatusSent
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
}

// Typing forward to every connection of the receiver, ignored when unauthenticated
func (uc *GatewayUseCase) Typing(connID string, p domain.TypingPayload) {
	senderID, ok := uc.presence.LookupUser(connID)
	if !ok {
		return
	}
	uc.toUser(p.ReceiverID.String(), domain.Event(domain.Typing, domain.TypingEvent{SenderID: senderID, IsTyping: p.IsTyping}))
}

// MarkRead move a message to read. Only a message whose sender is p.ReceiverID qualifies;
// message_read goes to p.SenderID when the status actually changed.
func (uc *GatewayUseCase) MarkRead(ctx context.Context, connID string, p domain.MessageRefPayload) error {
	actor, err := uc.caller(connID, "")
	if err != nil {
		return err
	}
	return uc.advance(ctx, statusChange{
		actor:        actor,
		messageID:    p.MessageID.String(),
		conversation: hub.ConversationID(p.SenderID.String(), p.ReceiverID.String()),
		sender:       p.ReceiverID.String(),
		status:       domain.StatusRead,
		notify:       p.SenderID.String(),
		event:        domain.MessageRead,
	})
}

// MessageDelivered move a message from sent to delivered and tell p.ReceiverID,
// ignored when unauthenticated
func (uc *GatewayUseCase) MessageDelivered(ctx context.Context, connID string, p domain.MessageDeliveredPayload) error {
	actor, ok := uc.presence.LookupUser(connID)
	if !ok {
		return nil
	}
	return uc.advance(ctx, statusChange{
		actor:        actor,
		messageID:    p.MessageID.String(),
		conversation: hub.ConversationID(actor, p.ReceiverID.String()),
		sender:       p.ReceiverID.String(),
		status:       domain.StatusDelivered,
		notify:       p.ReceiverID.String(),
		event:        domain.MessageDelivered,
	})
}

type statusChange struct {
	actor        string
	messageID    string
	conversation string
	sender       string
	status       domain.MessageStatus
	notify       string
	event        domain.Action
}

// advance write the status through to the store, mirror it in the cache and notify on change.
// A cached message that fails the sender or ordering check short-circuits without a store call.
func (uc *GatewayUseCase) advance(ctx context.Context, c statusChange) error {
	if uc.cache.Check(c.conversation, c.messageID, c.sender, c.status) == hub.CacheRejected {
		return nil
	}

	updated, err := uc.store.UpdateStatus(ctx, c.messageID, c.actor, c.sender, c.status)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.Log.Error("status update failed",
			zap.String("message_id", c.messageID),
			zap.String("status", string(c.status)),
			zap.Error(err),
		)
		return &domain.WSError{Code: domain.CodeUnavailable, Message: err.Error()}
	}
	if !updated {
		return nil
	}

	uc.cache.UpdateStatus(c.conversation, c.messageID, c.sender, c.status)
	uc.toUser(c.notify, domain.Event(c.event, domain.MessageEvent{MessageID: c.messageID}))
	return nil
}

// DeleteMessage delete through the store, then drop it from the cache and tell the room
func (uc *GatewayUseCase) DeleteMessage(ctx context.Context, connID string, p domain.MessageRefPayload) error {
	senderID, err := uc.caller(connID, p.SenderID)
	if err != nil {
		return err
	}

	messageID := p.MessageID.String()
	conv := hub.ConversationID(senderID, p.ReceiverID.String())

	err = uc.store.DeleteMessage(ctx, messageID, senderID)
	if errors.Is(err, domain.ErrNotFound) {
		uc.cache.Remove(conv, messageID)
		return nil
	}
	if err != nil {
		logger.Log.Error("delete_message store failed", zap.String("message_id", messageID), zap.Error(err))
		return &domain.WSError{Code: domain.CodeUnavailable, Message: err.Error()}
	}

	uc.cache.Remove(conv, messageID)
	uc.toRoom(conv, domain.Event(domain.MessageDeleted, domain.MessageEvent{MessageID: messageID}))
	return nil
}

// GetOnlineStatus local presence first, then the shared presence repository
func (uc *GatewayUseCase) GetOnlineStatus(ctx context.Context, p domain.OnlineStatusPayload) domain.OnlineStatus {
	userID := p.UserID.String()
	status := domain.OnlineStatus{UserID: userID, IsOnline: uc.presence.IsOnline(userID)}
	if status.IsOnline || uc.presenceRepo == nil {
		return status
	}

	online, err := uc.presenceRepo.IsOnline(ctx, userID)
	if err != nil {
		logger.Log.Warn("presence lookup failed", zap.String("user_id", userID), zap.Error(err))
		return status
	}
	status.IsOnline = online
	return status
}

// Heartbeat keep the shared presence record alive
func (uc *GatewayUseCase) Heartbeat(ctx context.Context, connID string) {
	if uc.presenceRepo == nil {
		return
	}
	userID, ok := uc.presence.LookupUser(connID)
	if !ok {
		return
	}
	alive, err := uc.presenceRepo.Refresh(ctx, userID)
	if err != nil {
		logger.Log.Warn("presence refresh failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if !alive {
		uc.savePresence(ctx, userID)
	}
}

// Disconnect drop the connection everywhere; user_offline when it was the user's last one
func (uc *GatewayUseCase) Disconnect(ctx context.Context, connID string) {
	userID, wentOffline := uc.presence.Unregister(connID)
	uc.rooms.Leave(connID)
	uc.conns.Remove(connID)

	logger.Log.Debug("connection closed", zap.String("conn_id", connID), zap.String("user_id", userID))
	if userID == "" {
		return
	}

	if !wentOffline {
		uc.savePresence(ctx, userID)
		return
	}

	if uc.presenceRepo != nil {
		if err := uc.presenceRepo.SetOffline(ctx, userID, uc.nodeID); err != nil {
			logger.Log.Warn("presence clear failed", zap.String("user_id", userID), zap.Error(err))
		} else if online, err := uc.presenceRepo.IsOnline(ctx, userID); err == nil && online {
			// record owned by another node, user still connected there
			logger.Log.Debug("user still online on another node", zap.String("user_id", userID))
			return
		}
	}
	uc.toAll(domain.Event(domain.UserOffline, domain.UserEvent{UserID: userID}), connID)
}

func (uc *GatewayUseCase) savePresence(ctx context.Context, userID string) {
	if uc.presenceRepo == nil {
		return
	}
	err := uc.presenceRepo.SetOnline(ctx, domain.PresenceSession{
		UserID:      userID,
		NodeID:      uc.nodeID,
		Connections: len(uc.presence.Connections(userID)),
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		logger.Log.Warn("presence save failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// HandleRelay deliver an event published by another node to local connections
func (uc *GatewayUseCase) HandleRelay(env domain.RelayEnvelope) {
	switch env.Scope {
	case domain.ScopeRoom:
		uc.rooms.Broadcast(env.Target, env.Event)
	case domain.ScopeUser:
		uc.conns.SendMany(uc.presence.Connections(env.Target), env.Event)
	case domain.ScopeAll:
		uc.conns.Broadcast(env.Event)
	default:
		logger.Log.Warn("unknown relay scope", zap.String("scope", string(env.Scope)), zap.String("origin", env.Origin))
	}
}

func (uc *GatewayUseCase) toRoom(conversationID string, resp domain.WSResponse) {
	uc.rooms.Broadcast(conversationID, resp)
	uc.publish(domain.ScopeRoom, conversationID, resp)
}

func (uc *GatewayUseCase) toUser(userID string, resp domain.WSResponse) {
	uc.conns.SendMany(uc.presence.Connections(userID), resp)
	uc.publish(domain.ScopeUser, userID, resp)
}

func (uc *GatewayUseCase) toAll(resp domain.WSResponse, exceptConnID string) {
	uc.conns.Broadcast(resp, exceptConnID)
	uc.publish(domain.ScopeAll, "", resp)
}

func (uc *GatewayUseCase) publish(scope domain.RelayScope, target string, resp domain.WSResponse) {
	if uc.relay == nil {
		return
	}
	env := domain.RelayEnvelope{Origin: uc.nodeID, Scope: scope, Target: target, Event: resp}
	if err := uc.relay.Publish(context.Background(), env); err != nil {
		logger.Log.Warn("relay publish failed", zap.String("scope", string(scope)), zap.Error(err))
	}
}
