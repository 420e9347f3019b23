package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatWebsocketHandler websocket transport of the gateway
type ChatWebsocketHandler struct {
	gateway      *GatewayUseCase
	pingInterval time.Duration
	sendBuffer   int
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(gateway *GatewayUseCase, pingInterval time.Duration, sendBuffer int) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		gateway:      gateway,
		pingInterval: pingInterval,
		sendBuffer:   sendBuffer,
	}
}

// HandleConnection 是 WebSocket 連線的進入點, 直到連線關閉才返回
func (h *ChatWebsocketHandler) HandleConnection(conn *websocket.Conn) {
	client := newWSClient(uuid.NewString(), conn, h.sendBuffer)
	log := logger.Log.With(zap.String("conn_id", client.ID()))

	h.gateway.Connect(client)
	go client.writePump(h.pingInterval)

	defer func() {
		// in-flight store calls are not canceled by a disconnect
		h.gateway.Disconnect(context.Background(), client.ID())
		client.close()
		conn.Close()
		// conn goes back to fiber's pool after return
		client.wait()
		log.Info("websocket close")
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		log.Info("websocket closed by client", zap.Int("code", code))
		return nil
	})

	//server發出ping之後client連線正常會回pong
	conn.SetPongHandler(func(string) error {
		h.gateway.Heartbeat(context.Background(), client.ID())
		return nil
	})

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				log.Debug("connection closed", zap.Error(err))
			} else {
				//直接斷線 1006
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		switch mt {
		case websocket.TextMessage:
			h.textMessageAction(context.Background(), client, message)
		case websocket.BinaryMessage:
			h.sendError(client, "", domain.InvalidArgument("binary frames are not supported"))
		}
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, client *wsClient, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		h.sendError(client, "", domain.InvalidArgument("malformed frame: "+err.Error()))
		return
	}

	switch domain.Action(req.Action) {
	case domain.Authenticate:
		p, err := domain.Decode[domain.AuthenticatePayload](req.Payload)
		if err != nil {
			h.sendError(client, req.RequestID, err)
			return
		}
		if err := h.gateway.Authenticate(ctx, client.ID(), p); err != nil {
			logger.Log.Info("authenticate rejected", zap.String("conn_id", client.ID()), zap.String("user_id", p.UserID.String()), zap.Error(err))
		}

	case domain.JoinConversation:
		p, err := domain.Decode[domain.JoinConversationPayload](req.Payload)
		if err == nil {
			err = h.gateway.JoinConversation(client.ID(), p)
		}
		h.sendError(client, req.RequestID, err)

	case domain.SendMessage:
		p, err := domain.Decode[domain.SendMessagePayload](req.Payload)
		if err != nil {
			h.sendError(client, req.RequestID, err)
			return
		}
		h.sendAck(client, req, h.gateway.SendMessage(ctx, client.ID(), p))

	case domain.SendReply:
		p, err := domain.Decode[domain.SendReplyPayload](req.Payload)
		if err != nil {
			h.sendError(client, req.RequestID, err)
			return
		}
		h.sendAck(client, req, h.gateway.SendReply(ctx, client.ID(), p))

	case domain.Typing:
		p, err := domain.Decode[domain.TypingPayload](req.Payload)
		if err != nil {
			h.sendError(client, req.RequestID, err)
			return
		}
		h.gateway.Typing(client.ID(), p)

	case domain.MarkRead:
		p, err := domain.Decode[domain.MessageRefPayload](req.Payload)
		if err == nil {
			err = h.gateway.MarkRead(ctx, client.ID(), p)
		}
		h.sendError(client, req.RequestID, err)

	case domain.DeleteMessage:
		p, err := domain.Decode[domain.MessageRefPayload](req.Payload)
		if err == nil {
			err = h.gateway.DeleteMessage(ctx, client.ID(), p)
		}
		h.sendError(client, req.RequestID, err)

	case domain.GetOnlineStatus:
		p, err := domain.Decode[domain.OnlineStatusPayload](req.Payload)
		if err != nil {
			h.sendError(client, req.RequestID, err)
			return
		}
		h.send(client, domain.WSResponse{
			Action:    req.Action,
			RequestID: req.RequestID,
			Success:   true,
			Payload:   h.gateway.GetOnlineStatus(ctx, p),
		})

	case domain.MessageDelivered:
		p, err := domain.Decode[domain.MessageDeliveredPayload](req.Payload)
		if err == nil {
			err = h.gateway.MessageDelivered(ctx, client.ID(), p)
		}
		h.sendError(client, req.RequestID, err)

	default:
		h.sendError(client, req.RequestID, &domain.WSError{Code: domain.CodeUnknownAction, Message: "unknown action " + req.Action})
	}
}

func (h *ChatWebsocketHandler) sendAck(client *wsClient, req domain.WSRequest, ack domain.Ack) {
	resp := domain.WSResponse{
		Action:    req.Action,
		RequestID: req.RequestID,
		Success:   ack.Status == domain.AckSuccess,
		Payload:   ack,
	}
	if !resp.Success {
		if reason, ok := ack.Message.(string); ok {
			resp.Error = reason
		}
	}
	h.send(client, resp)
}

// sendError typed error frame, nil err sends nothing
func (h *ChatWebsocketHandler) sendError(client *wsClient, requestID string, err error) {
	if err == nil {
		return
	}
	wsErr := domain.AsWSError(err)
	logger.Log.Debug("websocket err", zap.String("conn_id", client.ID()), zap.String("code", string(wsErr.Code)), zap.String("err", wsErr.Message))
	h.send(client, domain.ErrorFrame(requestID, wsErr))
}

func (h *ChatWebsocketHandler) send(client *wsClient, resp domain.WSResponse) {
	if err := client.Send(resp); err != nil {
		logger.Log.Warn("write message error", zap.String("conn_id", client.ID()), zap.Error(err))
	}
}
