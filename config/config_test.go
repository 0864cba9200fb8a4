package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DYNAMODB_TABLE", "SNS_TOPIC_ARN", "NOTIFY_MODE", "STORE_BACKEND", "DB_SECRET_NAME", "STORE_ATOMIC_INSERT", "ADMIN_JWT_SECRET", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "jornageo-registrations", cfg.Store.Table)
	require.Equal(t, BackendDynamoDB, cfg.Store.Backend)
	require.Equal(t, "", cfg.Notify.TopicARN, "no topic means no notification")
	require.Equal(t, "publish", cfg.Notify.Mode)
	require.False(t, cfg.Mirror.Enabled())
	require.True(t, cfg.Features.AtomicInsert)
	require.Equal(t, "*", cfg.Server.CORSAllowedOrigins)
	require.Empty(t, cfg.Admin.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "other-table")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:1:t")
	t.Setenv("NOTIFY_MODE", "Subscribe")
	t.Setenv("STORE_BACKEND", "REDIS")
	t.Setenv("DB_SECRET_NAME", "jornageo/db")
	t.Setenv("STORE_ATOMIC_INSERT", "false")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "other-table", cfg.Store.Table)
	require.Equal(t, BackendRedis, cfg.Store.Backend)
	require.Equal(t, "subscribe", cfg.Notify.Mode)
	require.True(t, cfg.Mirror.Enabled())
	require.False(t, cfg.Features.AtomicInsert)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.KafkaBrokers)
	require.Equal(t, 3, cfg.Redis.DB)
}

func TestGetEnvBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("STORE_ATOMIC_INSERT", "maybe")
	require.True(t, getEnvBool("STORE_ATOMIC_INSERT", true))
}
