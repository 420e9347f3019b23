package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/app"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/hub"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/repository"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/router"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/config"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/database"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"
	testtool "github.com/AsemAbuOthman/Forsah-sub000/pkg/test_tool"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/token"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	defer logger.Log.Sync()
	logger.Log.SetDebugMode(!config.IsProduction())

	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)
	if config.EnvConfig.ChatServicePort != "" {
		cfg.Port = config.EnvConfig.ChatServicePort
	}
	if cfg.NodeID == "" {
		cfg.NodeID = uuid.NewString()
	}
	if err := cfg.Auth.Validate(); err != nil {
		logger.Log.Fatal("invalid auth config", zap.Error(err))
	}
	token.SetSecret(cfg.Auth.Secret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. in-memory hub
	presence := hub.NewPresence(cfg.Presence.MultiDevice)
	cache, err := hub.NewMessageCache(cfg.Cache.MaxConversations, cfg.Cache.MaxMessagesPerConversation)
	if err != nil {
		logger.Log.Fatal("create message cache", zap.Error(err))
	}

	// 2. message service client
	store := repository.NewHTTPMessageStore(cfg.MessageService.URL, cfg.MessageService.Timeout)

	gateway := app.NewGatewayUseCase(cfg.NodeID, presence, cache, store, app.NewJWTValidator(cfg.Auth.Enabled))

	// 3. Redis (presence + relay between nodes)
	if cfg.Redis.Enabled {
		redisClient, err := connectRedis(cfg.Redis)
		if err != nil {
			logger.Log.Fatal("connect redis", zap.Error(err))
		}
		defer redisClient.Close()

		presenceRepo := repository.NewRedisPresenceRepository(
			database.NewRedisRepository[domain.PresenceSession](redisClient),
			cfg.Presence.TTL,
		)
		gateway.WithRedis(presenceRepo, repository.NewRedisPubSub(redisClient, cfg.Redis.Channel, cfg.NodeID))
		if err := gateway.Start(ctx); err != nil {
			logger.Log.Fatal("subscribe relay", zap.Error(err))
		}
	}

	// 4. 啟動 Fiber
	r := fiber.New(fiber.Config{DisableStartupMessage: config.IsProduction()})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Log.Fatal("open access log", zap.Error(err))
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, cfg.NodeID, gateway, app.NewChatWebsocketHandler(gateway, cfg.Websocket.PingInterval, cfg.Websocket.SendBuffer))

	testtool.StartPprof("")

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down chat service")
		if err := r.Shutdown(); err != nil {
			logger.Log.Error("fiber shutdown", zap.Error(err))
		}
	}()

	port := ":" + cfg.Port
	logger.Log.Info("Chat Service listening", zap.String("port", port), zap.String("node_id", cfg.NodeID))
	if err := r.Listen(port); err != nil {
		logger.Log.Fatal("Failed to start Fiber", zap.Error(err))
	}
}

// connectRedis sentinel when REDIS_SENTINEL*_IP are set, otherwise a single node
func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	masterName, sentinels := config.GetRedisSetting()
	if len(sentinels) > 0 {
		return database.NewRedisClient(masterName, sentinels, cfg.RedisDB)
	}
	return database.NewRedisSingleClient(cfg.Addr, cfg.RedisDB)
}
