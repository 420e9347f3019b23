package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/database"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
)

// EventPublisher 發布訊息生命週期事件
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

// KafkaWriter subset of *kafka.Writer
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer KafkaWriter
}

// NewKafkaPublisher key = conversation, keep one conversation on one partition
func NewKafkaPublisher(writer KafkaWriter) EventPublisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Conversation),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type rabbitPublisher struct {
	repo     database.RabbitRepo
	exchange string
}

// NewRabbitPublisher routing key = event type on a topic exchange
func NewRabbitPublisher(repo database.RabbitRepo, exchange string) EventPublisher {
	return &rabbitPublisher{repo: repo, exchange: exchange}
}

func (p *rabbitPublisher) Publish(_ context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.repo.Publish(p.exchange, string(event.Type), amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.MessageID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
}

func (p *rabbitPublisher) Close() error {
	return p.repo.Close()
}

type nopPublisher struct{}

// NewNopPublisher events.driver=none
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, domain.Event) error { return nil }

func (nopPublisher) Close() error { return nil }
