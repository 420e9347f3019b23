package config

import (
	"errors"
	"time"
)

// Chat definition chat_service YAML structure
type Chat struct {
	Port   string `mapstructure:"port"`
	NodeID string `mapstructure:"node_id"`

	Auth           AuthConfig           `mapstructure:"auth"`
	Presence       PresenceConfig       `mapstructure:"presence"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Websocket      WebsocketConfig      `mapstructure:"ws"`
	MessageService MessageServiceConfig `mapstructure:"message_service"`
	Redis          RedisConfig          `mapstructure:"redis"`
}

// Message definition message_service YAML structure
type Message struct {
	Port string `mapstructure:"port"`

	Auth       AuthConfig     `mapstructure:"auth"`
	Store      StoreConfig    `mapstructure:"store"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	Events     EventsConfig   `mapstructure:"events"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`
}

// AuthConfig JWT validation setting
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
}

// ErrMissingSecret auth enabled without auth.secret (JWT_SECRET)
var ErrMissingSecret = errors.New("auth.enabled requires auth.secret")

// Validate enabled auth must carry a secret
func (a AuthConfig) Validate() error {
	if a.Enabled && a.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

// PresenceConfig multi_device=false keeps one connection per user (last login wins)
type PresenceConfig struct {
	MultiDevice bool          `mapstructure:"multi_device"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// CacheConfig bounded message cache
type CacheConfig struct {
	MaxConversations           int `mapstructure:"max_conversations"`
	MaxMessagesPerConversation int `mapstructure:"max_messages_per_conversation"`
}

// WebsocketConfig websocket connection setting
type WebsocketConfig struct {
	PingInterval time.Duration `mapstructure:"ping_interval"`
	SendBuffer   int           `mapstructure:"send_buffer"`
}

// MessageServiceConfig gateway -> message_service HTTP client
type MessageServiceConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	RedisDB int    `mapstructure:"redis_db"`
	Channel string `mapstructure:"channel"`
}

// StoreConfig message repository driver: gorm | mongo
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// EventsConfig event publisher driver: kafka | rabbitmq | none
type EventsConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP            string `mapstructure:"ip"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Exchange      string `mapstructure:"exchange"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
