package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Stores are selected by which
// URLs are present: an empty PostgresURL means in-memory stores, an empty
// RedisURL disables the trust cache, empty KafkaBrokers disables the Kafka
// audit mirror.
type Server struct {
	Addr          string
	PostgresURL   string
	RedisURL      string
	KafkaBrokers  []string
	AuditTopic    string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	OwnerAddress  string
	TrustCacheTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TRUSTLEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "trustledger"
	}
	audience := os.Getenv("JWT_AUDIENCE")
	if audience == "" {
		audience = "trustledger-api"
	}

	auditTopic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "trustledger.audit.v1"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	cacheTTL := 5 * time.Minute
	if raw := os.Getenv("TRUST_CACHE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cacheTTL = d
		}
	}

	return Server{
		Addr:          addr,
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		AuditTopic:    auditTopic,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     issuer,
		JWTAudience:   audience,
		OwnerAddress:  os.Getenv("REGISTRY_OWNER"),
		TrustCacheTTL: cacheTTL,
	}
}
