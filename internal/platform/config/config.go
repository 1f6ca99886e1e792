package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration so main stays lean.
type Config struct {
	Addr string

	// PostgresDSN selects the postgres-backed stores when non-empty;
	// otherwise the server runs on in-memory stores (dev, tests).
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig

	// JWTSigningKey signs admin access tokens.
	JWTSigningKey string
	// AdminUser / AdminSecretHash bootstrap the single admin login.
	// The hash is a bcrypt hash; plain secrets are never configured.
	AdminUser       string
	AdminSecretHash string

	// SizingBindings maps criterion ids to sizing kinds, parsed from
	// comma-separated "criterionID=kind" pairs. Deployment configuration:
	// which criteria in the scoring tree are auto-computed.
	SizingBindings map[string]string
}

// RedisConfig configures the optional hierarchy read cache.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration
}

// KafkaConfig configures the mutation event stream. Empty brokers disable
// publishing and the server falls back to a log-only publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables with dev defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:            getenv("DEALER_AUDIT_ADDR", ":8080"),
		PostgresDSN:     os.Getenv("DEALER_AUDIT_POSTGRES_DSN"),
		JWTSigningKey:   getenv("DEALER_AUDIT_JWT_KEY", "dev-secret-key-change-in-production"),
		AdminUser:       getenv("DEALER_AUDIT_ADMIN_USER", "admin"),
		AdminSecretHash: os.Getenv("DEALER_AUDIT_ADMIN_SECRET_HASH"),
	}

	cfg.Redis = RedisConfig{
		URL:          os.Getenv("DEALER_AUDIT_REDIS_URL"),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		TTL:          getDuration("DEALER_AUDIT_CACHE_TTL", 5*time.Minute),
	}

	if brokers := os.Getenv("DEALER_AUDIT_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka = KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   getenv("DEALER_AUDIT_KAFKA_TOPIC", "dealeraudit.mutations"),
		}
	}

	if raw := os.Getenv("DEALER_AUDIT_SIZING_BINDINGS"); raw != "" {
		cfg.SizingBindings = make(map[string]string)
		for _, pair := range strings.Split(raw, ",") {
			id, kind, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok {
				continue
			}
			cfg.SizingBindings[id] = kind
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
