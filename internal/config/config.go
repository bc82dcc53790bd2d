// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ipam-control-plane/internal/db"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseDriver selects the store: "postgres" (default) or "sqlite" for local development.
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	// DatabaseURL is the Postgres DSN. Required when DatabaseDriver is postgres.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SQLitePath is the database file used when DatabaseDriver is sqlite.
	SQLitePath string `mapstructure:"SQLITE_PATH"`
	// JWTPublicKey is the PEM-encoded public key or path to file of the identity provider.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTPrivateKey is only needed by cmd/seed to mint development tokens.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTIssuer is the expected iss claim.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the expected aud claim.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the lifetime of development tokens minted by cmd/seed (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// AuthzPolicyFile optionally replaces the built-in RPC authorization policy with a Rego file.
	AuthzPolicyFile string `mapstructure:"AUTHZ_POLICY_FILE"`

	// OpenTelemetry (optional). An empty endpoint keeps traces, metrics and logs in process.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext to the collector even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// Notifications (optional). When Kafka brokers are set, request events are written to Kafka.
	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// NotifyKafkaTopic is the topic for request lifecycle events.
	NotifyKafkaTopic string `mapstructure:"NOTIFY_KAFKA_TOPIC"`

	// Worker-only: Loki URL the notification worker pushes events to (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the notification worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// ExpirySweepInterval is how often the worker releases expired leases (e.g. "1m"); "0" disables it.
	ExpirySweepInterval string `mapstructure:"EXPIRY_SWEEP_INTERVAL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "ipam.db")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_ISSUER", "ipam-identity")
	v.SetDefault("JWT_AUDIENCE", "ipam-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("AUTHZ_POLICY_FILE", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "ipam-control-plane")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("NOTIFY_KAFKA_TOPIC", "ipam-request-events")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "ipam-notify-worker")
	v.SetDefault("EXPIRY_SWEEP_INTERVAL", "1m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}
	dialect, err := db.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		return nil, errors.New("config: DATABASE_DRIVER must be postgres or sqlite")
	}
	if dialect == db.SQLite && cfg.Env == "production" {
		return nil, errors.New("config: DATABASE_DRIVER=sqlite must not be used when APP_ENV=production")
	}
	if _, err := time.ParseDuration(cfg.ExpirySweepInterval); err != nil {
		return nil, errors.New("config: EXPIRY_SWEEP_INTERVAL must be a duration (e.g. 1m)")
	}

	return &cfg, nil
}

// Dialect returns the SQL dialect for DatabaseDriver. Load has already validated it.
func (c *Config) Dialect() db.Dialect {
	d, err := db.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return db.Postgres
	}
	return d
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// SweepInterval parses ExpirySweepInterval. Zero or negative disables the sweep.
func (c *Config) SweepInterval() time.Duration {
	d, err := time.ParseDuration(c.ExpirySweepInterval)
	if err != nil {
		return time.Minute
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// An empty list disables Kafka publishing.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
