package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Notify   NotifyConfig
	Mirror   MirrorConfig
	Redis    RedisConfig
	AWS      AWSConfig
	Admin    AdminConfig
	Log      LogConfig
	Features FeatureConfig
}

// ServerConfig holds HTTP server settings for the standalone binary.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// StoreConfig selects and names the registration store.
type StoreConfig struct {
	Backend string // dynamodb | redis | memory
	Table   string
}

// NotifyConfig selects the notification mode. An empty TopicARN (or empty Kafka
// brokers in kafka mode) disables notification.
type NotifyConfig struct {
	Mode         string // publish | subscribe | kafka
	TopicARN     string
	KafkaBrokers []string
	KafkaTopic   string
}

// MirrorConfig enables the relational mirror when SecretName is set.
type MirrorConfig struct {
	SecretName string
	Port       string
	SSLMode    string
}

// Enabled reports whether registrations are mirrored.
func (m MirrorConfig) Enabled() bool { return m.SecretName != "" }

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AWSConfig holds AWS region and optional static credentials.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string // e.g. http://localhost:4566 for localstack
}

// AdminConfig guards GET when Secret is set.
type AdminConfig struct {
	JWTSecret      string
	JWTExpireHours int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string // when set, logs are also written here with rotation
}

// FeatureConfig switches deployment-dependent behavior.
type FeatureConfig struct {
	AtomicInsert bool
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendDynamoDB)),
			Table:   getEnv("DYNAMODB_TABLE", "jornageo-registrations"),
		},
		Notify: NotifyConfig{
			Mode:         strings.ToLower(getEnv("NOTIFY_MODE", "publish")),
			TopicARN:     getEnv("SNS_TOPIC_ARN", ""),
			KafkaBrokers: splitTrim(getEnv("KAFKA_BROKERS", ""), ","),
			KafkaTopic:   getEnv("KAFKA_TOPIC", "registrations.created"),
		},
		Mirror: MirrorConfig{
			SecretName: getEnv("DB_SECRET_NAME", ""),
			Port:       getEnv("DB_PORT", "5432"),
			SSLMode:    getEnv("DB_SSLMODE", "require"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			EndpointURL:     getEnv("AWS_ENDPOINT_URL", ""),
		},
		Admin: AdminConfig{
			JWTSecret:      getEnv("ADMIN_JWT_SECRET", ""),
			JWTExpireHours: getEnvInt("ADMIN_JWT_EXPIRE_HOURS", 12),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Features: FeatureConfig{
			AtomicInsert: getEnvBool("STORE_ATOMIC_INSERT", true),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
