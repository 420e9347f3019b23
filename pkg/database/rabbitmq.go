package database

import (
	"fmt"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// RabbitRepo definition rabbit repo
type RabbitRepo interface {
	Publish(exchange, key string, msg amqp.Publishing) error
	Close() error
}

type rabbitRepo struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// RabbitConnectStr build amqp url
func RabbitConnectStr(user, password, ip, port string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", user, password, ip, port)
}

// NewRabbitRepository connect, open a channel and declare a topic exchange
func NewRabbitRepository(d Connection, exchange string) (RabbitRepo, error) {
	conn, err := ConnectRabbitMQWithRetry(d)
	if err != nil {
		return nil, err
	}

	ch, err := GetRabbitMQChannelWithRetry(conn, d.RetryCount, d.RetryInterval)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &rabbitRepo{conn: conn, channel: ch}, nil
}

// ConnectRabbitMQWithRetry 嘗試連線到 RabbitMQ
func ConnectRabbitMQWithRetry(d Connection) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for attempt := 1; attempt <= d.RetryCount; attempt++ {
		conn, err = amqp.Dial(d.ConnectStr)
		if err == nil {
			logger.Log.Info("rabbitmq connected", zap.Int("attempt", attempt))
			return conn, nil
		}

		logger.Log.Warn("rabbitmq connect failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max", d.RetryCount),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval)
	}

	return nil, fmt.Errorf("rabbitmq not reachable after %d attempts: %w", d.RetryCount, err)
}

// GetRabbitMQChannelWithRetry 使用已有的 RabbitMQ 連線嘗試取得 Channel
func GetRabbitMQChannelWithRetry(conn *amqp.Connection, maxRetries int, delay time.Duration) (*amqp.Channel, error) {
	var ch *amqp.Channel
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ch, err = conn.Channel()
		if err == nil {
			return ch, nil
		}

		logger.Log.Warn("rabbitmq channel failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("rabbitmq channel not ready after %d attempts: %w", maxRetries, err)
}

func (r *rabbitRepo) Publish(exchange, key string, msg amqp.Publishing) error {
	return r.channel.Publish(exchange, key, false, false, msg)
}

func (r *rabbitRepo) Close() error {
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}
