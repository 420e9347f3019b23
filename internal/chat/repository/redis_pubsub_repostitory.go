package repository

import (
	"context"
	"encoding/json"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Relay fan-out between gateway nodes
type Relay interface {
	Publish(ctx context.Context, env domain.RelayEnvelope) error
	// Subscribe call handler for every envelope published by another node until ctx is done
	Subscribe(ctx context.Context, handler func(env domain.RelayEnvelope)) error
}

// RedisPubSub relay over one redis pub/sub channel
type RedisPubSub struct {
	client  *redis.Client
	channel string
	nodeID  string
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client, channel, nodeID string) *RedisPubSub {
	if channel == "" {
		channel = "chat:relay"
	}
	return &RedisPubSub{
		client:  client,
		channel: channel,
		nodeID:  nodeID,
	}
}

// Publish 將 envelope 序列化後，發布到 relay channel
func (r *RedisPubSub) Publish(ctx context.Context, env domain.RelayEnvelope) error {
	if env.Origin == "" {
		env.Origin = r.nodeID
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Subscribe 訂閱 relay channel, skip envelopes from this node
func (r *RedisPubSub) Subscribe(ctx context.Context, handler func(env domain.RelayEnvelope)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var env domain.RelayEnvelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					logger.Log.Error("relay unmarshal failed", zap.String("channel", r.channel), zap.Error(err))
					continue
				}
				if env.Origin == r.nodeID {
					continue
				}
				handler(env)
			case <-ctx.Done():
				logger.Log.Info("relay subscription closed", zap.String("channel", r.channel))
				return
			}
		}
	}()
	return nil
}
