package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo 集合服務名稱 / yaml / log 路徑 from .env
type EnvInfo struct {
	ChatService    string
	MessageService string

	ChatServicePort    string
	MessageServicePort string

	ChatServiceYAMLPath    string
	MessageServiceYAMLPath string

	ChatServiceLogPath    string
	MessageServiceLogPath string
}

// EnvConfig 集合服務設定
var (
	EnvConfig = initEnv()
	envConfig EnvInfo
	once      sync.Once
	env       string
)

func initEnv() EnvInfo {
	once.Do(func() {
		path, err := GetPath(".env", 5)
		if err != nil {
			log.Printf("Warning: Could not get .env path: %v", err)
		} else if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}

		env = os.Getenv("ENV")

		envConfig = EnvInfo{
			ChatService:    getEnv("CHAT_SERVICE", "chat_service"),
			MessageService: getEnv("MESSAGE_SERVICE", "message_service"),

			ChatServicePort:    os.Getenv("CHAT_SERVICE_PORT"),
			MessageServicePort: os.Getenv("MESSAGE_SERVICE_PORT"),

			ChatServiceYAMLPath:    getEnv("CHAT_SERVICE_YAML", "./config"),
			MessageServiceYAMLPath: getEnv("MESSAGE_SERVICE_YAML", "./config"),

			ChatServiceLogPath:    getEnv("CHAT_SERVICE_LOG", "./log/chat_service"),
			MessageServiceLogPath: getEnv("MESSAGE_SERVICE_LOG", "./log/message_service"),
		}
	})

	return envConfig
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// IsProduction check run env
func IsProduction() bool {
	return env == "production"
}

// LoadConfig 加載配置, exit on error
func LoadConfig[T any](serviceName string, configPath string) T {
	cfg, err := LoadConfigE[T](serviceName, configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

// LoadConfigE read <configPath>/<serviceName>.yaml, expand ${VAR} placeholders and
// let environment variables override keys (a.b -> A_B)
func LoadConfigE[T any](serviceName string, configPath string) (T, error) {
	var cfg T

	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	rawConfig, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		return cfg, fmt.Errorf("read raw config file: %w", err)
	}

	// 替換 ${} 占位符為環境變數的值
	expandedConfig := os.ExpandEnv(string(rawConfig))
	if err := v.ReadConfig(bytes.NewBufferString(expandedConfig)); err != nil {
		return cfg, fmt.Errorf("read expanded config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// GetRedisSetting get redis sentinel setting from env (REDIS_SENTINEL*_IP / _PORT, REDIS_MASTER_NAME)
func GetRedisSetting() (string, []string) {
	var sentinelAddrs []string

	for _, e := range os.Environ() {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]

		if strings.HasPrefix(key, "REDIS_SENTINEL") && strings.HasSuffix(key, "_IP") {
			portKey := strings.Replace(key, "_IP", "_PORT", 1)
			if port := os.Getenv(portKey); port != "" {
				sentinelAddrs = append(sentinelAddrs, fmt.Sprintf("%s:%s", value, port))
			}
		}
	}

	return getEnv("REDIS_MASTER_NAME", "mymaster"), sentinelAddrs
}

// GetPath use fileName loop maxCount find file path
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + " can't find path")
}
