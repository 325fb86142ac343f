package config

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected basics: %+v", cfg)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("expected 24h token TTL, got %v", cfg.JWTTTL)
	}
	if cfg.StrictFeatures {
		t.Errorf("features should be lenient by default")
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Mongo.Database != "travel_agency" {
		t.Errorf("unexpected database %q", cfg.Mongo.Database)
	}
	if cfg.Redis.PackageCacheTTL != time.Minute {
		t.Errorf("unexpected cache TTL %v", cfg.Redis.PackageCacheTTL)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("kafka should be disabled by default, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.BookingTopic != "booking-events" {
		t.Errorf("unexpected topic %q", cfg.Kafka.BookingTopic)
	}
	if cfg.AuditWorkers != 4 {
		t.Errorf("unexpected worker count %d", cfg.AuditWorkers)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":           "s3cret",
		"PORT":                 "9000",
		"STRICT_FEATURES":      "true",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000,https://app.example.com",
		"KAFKA_BROKERS":        "k1:9092,k2:9092",
		"PACKAGE_CACHE_TTL":    "5m",
		"ADMIN_EMAIL":          "root@example.com",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9000" || !cfg.StrictFeatures {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://app.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if !slices.Equal(cfg.Kafka.Brokers, []string{"k1:9092", "k2:9092"}) {
		t.Errorf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
	if cfg.Redis.PackageCacheTTL != 5*time.Minute {
		t.Errorf("unexpected cache TTL %v", cfg.Redis.PackageCacheTTL)
	}
	if cfg.Admin.Email != "root@example.com" || cfg.Admin.Name != "Administrator" {
		t.Errorf("unexpected admin %+v", cfg.Admin)
	}
}

func TestLoadWith_RequiresJWTSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadWith_RejectsBadWorkerCount(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "s3cret",
		"AUDIT_WORKERS": "0",
	}))
	if err == nil {
		t.Fatalf("expected error")
	}
}
