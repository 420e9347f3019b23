package router

import (
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/app"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 注册 gateway 路由: GET / health, GET /ws websocket
func RegisterRoutes(r *fiber.App, nodeID string, gateway *app.GatewayUseCase, chatWebsocket *app.ChatWebsocketHandler) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "chat_service",
			"node_id":     nodeID,
			"connections": gateway.ConnectionCount(),
			"online":      len(gateway.OnlineUsers()),
		})
	})

	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	r.Get("/ws", websocket.New(chatWebsocket.HandleConnection))
}
