// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the read-only references HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (read-only pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Load the reference pages and watch them if asked to.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/references/internal/api"
	"github.com/taibuivan/references/internal/core/metadata"
	"github.com/taibuivan/references/internal/core/page"
	"github.com/taibuivan/references/internal/core/reference"
	"github.com/taibuivan/references/internal/platform/config"
	"github.com/taibuivan/references/internal/platform/constants"
	"github.com/taibuivan/references/internal/platform/middleware"
	"github.com/taibuivan/references/internal/platform/migration"
	pgstore "github.com/taibuivan/references/internal/platform/postgres"
	redisstore "github.com/taibuivan/references/internal/platform/redis"
	"github.com/taibuivan/references/internal/platform/sec"
)

// redisPoolSize is small: the API only reads the job state.
const redisPoolSize = 4

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

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
	)

	// Root context, cancelled on shutdown. Background loops (rate limit
	// cleanup, pages watcher) stop with it.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Use a 30s deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.APIPoolOptions(), log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisPoolSize, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Identity ───────────────────────────────────────────────────────
	// Without a public key every request is anonymous and sees public data.
	var verifier middleware.TokenVerifier
	if cfg.JWTPubKeyPath != "" {
		tokenService, err := sec.NewTokenService(cfg.JWTPubKeyPath, cfg.JWTIssuer)
		must(log, err, "initialize token verifier")
		verifier = tokenService
	}

	// ── 7. Reference pages ────────────────────────────────────────────────
	registry, err := page.NewRegistry(cfg.PagesFile, log)
	must(log, err, "load reference pages")
	log.Info("pages_loaded", slog.Int("pages", len(registry.Catalog().Pages())))

	if cfg.PagesWatch {
		go func() {
			if err := registry.Watch(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("pages_watch_stopped", slog.Any("error", err))
			}
		}()
	}

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	referenceService := reference.NewService(reference.NewPostgresRepository(pool))
	pageService := page.NewService(registry, referenceService)
	jobState := metadata.NewRedisStateStore(rdb)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Reference: reference.NewHandler(referenceService),
		Page:      page.NewHandler(pageService),
		Job:       metadata.NewHandler(jobState),
	}

	server := api.NewServer(rootCtx, cfg, log, verifier, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	rootCancel()
	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
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
