package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT, default=8080"`
	Env       string        `env:"ENV, default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`

	// StrictFeatures rejects package requests whose features field cannot be
	// decoded instead of storing an empty list.
	StrictFeatures     bool     `env:"STRICT_FEATURES, default=false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
	AuditWorkers       int      `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	Kafka KafkaConfig
	Admin AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=travel_agency"`
}

type RedisConfig struct {
	Addr            string        `env:"REDIS_ADDR, default=localhost:6379"`
	Password        string        `env:"REDIS_PASSWORD"`
	DB              int           `env:"REDIS_DB, default=0"`
	PackageCacheTTL time.Duration `env:"PACKAGE_CACHE_TTL, default=60s"`
}

// KafkaConfig is optional: no brokers disables event publishing.
type KafkaConfig struct {
	Brokers      []string `env:"KAFKA_BROKERS"`
	BookingTopic string   `env:"KAFKA_BOOKING_TOPIC, default=booking-events"`
}

// AdminConfig seeds an admin account at startup when Email and Password are set.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME, default=Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.AuditWorkers <= 0 {
		return nil, fmt.Errorf("config: AUDIT_WORKERS must be positive, got %d", cfg.AuditWorkers)
	}
	return &cfg, nil
}
