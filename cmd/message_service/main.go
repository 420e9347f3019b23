package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/AsemAbuOthman/Forsah-sub000/cmd/message_service/docs" // 引入生成的 Swagger 文档
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/app"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/handlers"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/repository"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/router"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/config"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/database"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"
	testtool "github.com/AsemAbuOthman/Forsah-sub000/pkg/test_tool"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/token"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MessageService, config.EnvConfig.MessageServiceLogPath)
	defer logger.Log.Sync()
	logger.Log.SetDebugMode(!config.IsProduction())

	cfg := config.LoadConfig[config.Message](config.EnvConfig.MessageService, config.EnvConfig.MessageServiceYAMLPath)
	if config.EnvConfig.MessageServicePort != "" {
		cfg.Port = config.EnvConfig.MessageServicePort
	}
	if err := cfg.Auth.Validate(); err != nil {
		logger.Log.Fatal("invalid auth config", zap.Error(err))
	}
	token.SetSecret(cfg.Auth.Secret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. message repository
	repo, closeRepo := newRepository(ctx, cfg)
	defer closeRepo()
	if err := repo.AutoMigrate(ctx); err != nil {
		logger.Log.Fatal("資料表遷移失敗", zap.Error(err))
	}

	// 2. event publisher
	publisher := newPublisher(ctx, cfg)
	defer publisher.Close()

	messageHandler := handlers.NewMessageHandler(app.NewMessageUseCase(repo, publisher))

	// 3. 啟動 Fiber
	r := fiber.New(fiber.Config{DisableStartupMessage: config.IsProduction()})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MessageServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Log.Fatal("open access log", zap.Error(err))
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, messageHandler, cfg.Auth.Enabled)

	testtool.StartPprof("127.0.0.1:6061")

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down message service")
		if err := r.Shutdown(); err != nil {
			logger.Log.Error("fiber shutdown", zap.Error(err))
		}
	}()

	port := ":" + cfg.Port
	logger.Log.Info("Message Service listening", zap.String("port", port), zap.String("store", cfg.Store.Driver), zap.String("events", cfg.Events.Driver))
	if err := r.Listen(port); err != nil {
		logger.Log.Fatal("Failed to start Fiber", zap.Error(err))
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// newRepository store.driver: gorm (default) | mongo
func newRepository(ctx context.Context, cfg config.Message) (repository.MessageRepository, func()) {
	switch cfg.Store.Driver {
	case "mongo":
		c := cfg.MongoSQL
		mongo, err := database.NewMongoDB(ctx, database.Connection{
			ConnectStr:    database.MongoConnectStr(c.Host, c.Port, c.User, c.Password),
			RetryCount:    c.RetryCount,
			RetryInterval: seconds(c.RetryInterval),
		}, c.Database)
		if err != nil {
			logger.Log.Fatal("Unable to connect to mongo after retries", zap.String("host", c.Host), zap.Error(err))
		}
		return repository.NewMongoMessageRepository(mongo.Database), func() {
			_ = mongo.Close(context.Background())
		}

	default:
		c := cfg.PostgreSQL
		db, err := database.NewPGConnection(database.Connection{
			ConnectStr:    database.PGConnectStr(c.Host, c.Port, c.User, c.Password, c.Database),
			RetryCount:    c.RetryCount,
			RetryInterval: seconds(c.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("Unable to connect to postgreSQL database after retries", zap.String("host", c.Host), zap.Error(err))
		}
		return repository.NewGormMessageRepository(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}
}

// newPublisher events.driver: kafka | rabbitmq | none
func newPublisher(ctx context.Context, cfg config.Message) repository.EventPublisher {
	switch cfg.Events.Driver {
	case "kafka":
		writer, err := database.NewKafkaWriterWithRetry(ctx, database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: seconds(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("Kafka Writer 建立失敗", zap.Error(err))
		}
		return repository.NewKafkaPublisher(writer)

	case "rabbitmq":
		c := cfg.RabbitMQ
		rabbit, err := database.NewRabbitRepository(database.Connection{
			ConnectStr:    database.RabbitConnectStr(c.User, c.Password, c.IP, c.Port),
			RetryCount:    c.RetryCount,
			RetryInterval: seconds(c.RetryInterval),
		}, c.Exchange)
		if err != nil {
			logger.Log.Fatal("RabbitMQ 連線失敗", zap.Error(err))
		}
		return repository.NewRabbitPublisher(rabbit, c.Exchange)

	default:
		return repository.NewNopPublisher()
	}
}
