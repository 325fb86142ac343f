// @title                       Travel Agency Booking API
// @version                     1.0
// @description                 Packages published by agencies, booked by clients.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/travelagency/booking-api/docs"
	"github.com/travelagency/booking-api/internal/api"
	"github.com/travelagency/booking-api/internal/core/service"
	mongostore "github.com/travelagency/booking-api/internal/infrastructure/db/mongo"
	redisstore "github.com/travelagency/booking-api/internal/infrastructure/db/redis"
	ops "github.com/travelagency/booking-api/internal/infrastructure/http"
	"github.com/travelagency/booking-api/internal/infrastructure/http/handlers"
	"github.com/travelagency/booking-api/internal/infrastructure/messaging/kafka"
	"github.com/travelagency/booking-api/internal/infrastructure/queue"
	"github.com/travelagency/booking-api/internal/pkg/config"
	"github.com/travelagency/booking-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}

	users := mongostore.NewUserRepository(db)
	packages := mongostore.NewPackageRepository(db)
	bookings := mongostore.NewBookingRepository(db)
	events := mongostore.NewBookingEventRepository(db)

	for _, ix := range []interface{ EnsureIndexes(context.Context) error }{users, packages, bookings, events} {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	// --- Audit pipeline ---
	var sink service.EventSink
	var publisher *kafka.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.BookingTopic})
		sink = publisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.BookingTopic).Msg("kafka publishing enabled")
	}
	audit := service.NewAuditService(events, sink, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, audit, log)
	dispatcher.Start(context.Background())

	// --- Services ---
	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, log)
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}
	packageService := service.NewPackageService(
		packages, users,
		redisstore.NewPackageCache(rdb, cfg.Redis.PackageCacheTTL),
		service.PackageOptions{StrictFeatures: cfg.StrictFeatures},
		log,
	)
	bookingService := service.NewBookingService(bookings, packages, users, dispatcher, log)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:         log,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Users:       users,
		Auth:        authService,
		Packages:    packageService,
		Bookings:    bookingService,
	})
	ops.RegisterOps(e, handlers.MongoCheck(db), handlers.RedisCheck(rdb))

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	// --- Shutdown: HTTP, audit queue, broker, Redis, Mongo ---
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit dispatcher did not drain")
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("close kafka writer")
		}
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("close redis")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("disconnect mongo")
	}

	log.Info().Msg("shutdown complete")
	return nil
}
