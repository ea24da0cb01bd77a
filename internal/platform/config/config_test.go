package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("missing base url fails startup", func(t *testing.T) {
		t.Setenv("BADGES_BASE_URL", "")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BADGES_BASE_URL")
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BADGES_BASE_URL", "https://badges.example.com")
		t.Setenv("BADGES_ADDR", "")
		t.Setenv("BADGES_KAFKA_BROKERS", "")
		t.Setenv("BADGES_AUDIT_TOPIC", "")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "badges.audit", cfg.AuditTopic)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.Equal(t, "https://badges.example.com/organization/", cfg.BaseURL.Issuer())
	})

	t.Run("explicit values", func(t *testing.T) {
		t.Setenv("BADGES_BASE_URL", "https://badges.example.com/")
		t.Setenv("BADGES_ADDR", ":9090")
		t.Setenv("BADGES_DATABASE_URL", "postgres://badges@localhost/badges")
		t.Setenv("BADGES_REDIS_URL", "redis://localhost:6379")
		t.Setenv("BADGES_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
		t.Setenv("BADGES_AUDIT_TOPIC", "audit.badges")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "postgres://badges@localhost/badges", cfg.DatabaseURL)
		assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, "audit.badges", cfg.AuditTopic)
	})
}
