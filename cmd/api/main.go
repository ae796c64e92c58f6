// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the collections HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations.
//  4. Connect to Redis.
//  5. Build the event bus, object storage and error tracking clients.
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/collections-api/internal/api"
	"github.com/taibuivan/collections-api/internal/core/author"
	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/core/collection"
	"github.com/taibuivan/collections-api/internal/core/image"
	"github.com/taibuivan/collections-api/internal/core/label"
	"github.com/taibuivan/collections-api/internal/core/partner"
	"github.com/taibuivan/collections-api/internal/platform/config"
	"github.com/taibuivan/collections-api/internal/platform/constants"
	"github.com/taibuivan/collections-api/internal/platform/errtrack"
	"github.com/taibuivan/collections-api/internal/platform/eventbus"
	"github.com/taibuivan/collections-api/internal/platform/migration"
	pgstore "github.com/taibuivan/collections-api/internal/platform/postgres"
	redisstore "github.com/taibuivan/collections-api/internal/platform/redis"
	"github.com/taibuivan/collections-api/internal/platform/sec"
	"github.com/taibuivan/collections-api/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("collection_labels_limit", cfg.CollectionLabelsLimit),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. External Services ──────────────────────────────────────────────
	var reporter errtrack.Reporter = errtrack.Nop{}
	if cfg.SentryDSN != "" {
		sentryReporter, err := errtrack.NewSentryReporter(cfg.SentryDSN, cfg.Environment)
		must(log, err, "initialize sentry")
		defer sentryReporter.Close()
		reporter = sentryReporter
	}

	eventClient, err := eventbus.NewClient(startupCtx, cfg.AWSRegion)
	must(log, err, "initialize event bus client")
	publisher := eventbus.NewPublisher(eventClient, cfg.EventBusName, cfg.EventSource, log)

	s3Client, err := storage.NewClient(startupCtx, cfg.S3Region, cfg.S3Endpoint)
	must(log, err, "initialize s3 client")
	uploader := storage.NewS3Uploader(s3Client, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, constants.ImageKeyPrefix, log)

	tokenService, err := sec.NewTokenService(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt verifier")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	txManager := pgstore.NewTxManager(pool)

	authorRepository := author.NewPostgresRepository(pool)
	partnerRepository := partner.NewPostgresRepository(pool)
	labelRepository := label.NewPostgresRepository(pool)
	categoryRepository := category.NewPostgresRepository(pool)

	collectionService := collection.NewService(collection.Dependencies{
		Collections:  collection.NewPostgresRepository(pool),
		Stories:      collection.NewPostgresStoryRepository(pool),
		Partnerships: collection.NewPostgresPartnershipRepository(pool),
		Authors:      authorRepository,
		Partners:     partnerRepository,
		Labels:       labelRepository,
		Categories:   categoryRepository,
		Tx:           txManager,
		Events:       publisher,
		Reporter:     reporter,
		Cache:        collection.NewRedisCache(rdb, cfg.PublicCacheTTL),
		Logger:       log,
	}, collection.Settings{
		LabelsLimit:    cfg.CollectionLabelsLimit,
		PublishTimeout: constants.EventPublishTimeout,
	})

	liveness, readiness := api.NewHealthHandlers(log,
		api.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Collection: collection.NewHandler(collectionService),
		Author:     author.NewHandler(author.NewService(authorRepository, collectionService, log)),
		Partner:    partner.NewHandler(partner.NewService(partnerRepository, collectionService, log)),
		Label:      label.NewHandler(label.NewService(labelRepository, txManager, log)),
		Category:   category.NewHandler(category.NewService(categoryRepository, log)),
		Image:      image.NewHandler(uploader),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, tokenService, reporter, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
