// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command web is the entry point for the dashboard web server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables (and an optional .env).
//  2. Initialize structured logger.
//  3. Install the tracer provider.
//  4. Connect to PostgreSQL and run migrations, or keep users in memory.
//  5. Connect to Redis, or keep session revocations in memory.
//  6. Wire the pipeline and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/dashboard/internal/api"
	"github.com/taibuivan/dashboard/internal/auth"
	"github.com/taibuivan/dashboard/internal/platform/config"
	"github.com/taibuivan/dashboard/internal/platform/constants"
	"github.com/taibuivan/dashboard/internal/platform/migration"
	"github.com/taibuivan/dashboard/internal/platform/pipeline"
	pgstore "github.com/taibuivan/dashboard/internal/platform/postgres"
	redisstore "github.com/taibuivan/dashboard/internal/platform/redis"
	"github.com/taibuivan/dashboard/internal/platform/sec"
	"github.com/taibuivan/dashboard/internal/platform/telemetry"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// A bad ENVIRONMENT is fatal before anything else is constructed.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("startup_failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment.String()),
		slog.String("port", cfg.ServerPort),
		slog.String("path_base", cfg.PathBase),
	)

	// ── 3. Tracing ────────────────────────────────────────────────────────
	shutdownTracer, err := telemetry.InitTracer(cfg.TracingEnabled, constants.AppName, constants.AppVersion, os.Stdout, log)
	must(log, err, "initialize tracing")
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error("tracer_shutdown_failed", slog.Any("error", err))
		}
	}()

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	var health api.HealthDependencies

	// ── 4. Users (PostgreSQL or memory) ───────────────────────────────────
	var users auth.UserStore = auth.NewMemoryUserStore()
	if cfg.DatabaseURL != "" {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

		users = auth.NewPostgresUserStore(pool)
		health.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
	} else {
		log.Warn("user_store_in_memory", slog.String("reason", "DATABASE_URL is empty"))
	}

	// ── 5. Session revocations (Redis or memory) ──────────────────────────
	var sessions auth.SessionStore = auth.NewMemorySessionStore()
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		sessions = auth.NewRedisSessionStore(rdb)
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	} else {
		log.Warn("session_store_in_memory", slog.String("reason", "REDIS_URL is empty"))
	}

	// ── 6. Auth Service ───────────────────────────────────────────────────
	secret := cfg.SessionSecret
	if secret == "" {
		secret, err = ephemeralSecret()
		must(log, err, "generate session secret")
		log.Warn("session_secret_ephemeral", slog.String("reason", "SESSION_SECRET is empty; sessions end on restart"))
	}

	tokens, err := sec.NewTokenService(secret, constants.AuthIssuer)
	must(log, err, "initialize session tokens")
	authService := auth.NewService(users, sessions, tokens, constants.SessionTTL)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server, err := api.NewServer(serverCtx, cfg, log, api.Options{
		Sessions: authService,
		Health:   health,
		Filters:  &pipeline.Registry{},
	})
	must(log, err, "build server")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// ephemeralSecret returns a random signing key for development runs.
func ephemeralSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
