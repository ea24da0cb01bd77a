package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"badgehub/internal/domain"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	BaseURL         domain.BaseURL
	DatabaseURL     string
	RedisURL        string
	KafkaBrokers    []string
	AuditTopic      string
	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. BADGES_BASE_URL has no default: documents built against a wrong
// base are unverifiable, so a missing value fails startup instead of
// serving broken URLs.
func FromEnv() (Server, error) {
	addr := os.Getenv("BADGES_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	base, err := domain.ParseBaseURL(os.Getenv("BADGES_BASE_URL"))
	if err != nil {
		return Server{}, fmt.Errorf("BADGES_BASE_URL: %w", err)
	}

	var brokers []string
	if raw := os.Getenv("BADGES_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("BADGES_AUDIT_TOPIC")
	if topic == "" {
		topic = "badges.audit"
	}

	return Server{
		Addr:            addr,
		BaseURL:         base,
		DatabaseURL:     os.Getenv("BADGES_DATABASE_URL"),
		RedisURL:        os.Getenv("BADGES_REDIS_URL"),
		KafkaBrokers:    brokers,
		AuditTopic:      topic,
		ShutdownTimeout: 10 * time.Second,
	}, nil
}
