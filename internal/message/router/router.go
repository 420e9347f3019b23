package router

import (
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/handlers"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes 注册 message service 路由
// @title Forsah Message Service API
// @version 1.0
// @description Durable direct messages: store, reply, delete, status, history and contacts
// @host localhost:8082
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func RegisterRoutes(app *fiber.App, messageHandler *handlers.MessageHandler, authEnabled bool) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	// gateway -> store
	app.Post("/send", messageHandler.Send)
	app.Post("/reply", messageHandler.Reply)
	app.Delete("/messages/:id", messageHandler.Delete)
	app.Patch("/messages/:id/status", messageHandler.UpdateStatus)

	// user reads
	auth := func(c *fiber.Ctx) error { return c.Next() }
	if authEnabled {
		auth = middlewares.JWTMiddleware()
	}
	app.Get("/history/:senderId/:receiverId", auth, messageHandler.History)
	app.Get("/contacts/:userId", auth, messageHandler.Contacts)
}
