// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command web is the entry point for the CSE Motors web server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (and .env).
//  3. Open storage: PostgreSQL with migrations, or in-memory repositories.
//  4. Open the session store: Redis, or in-memory with a cron sweeper.
//  5. Build hashing, token and session services.
//  6. Wire renderer, domain handlers and health checks.
//  7. Start the HTTP server with graceful shutdown.
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

	"github.com/taibuivan/csemotors/internal/account"
	"github.com/taibuivan/csemotors/internal/inventory"
	"github.com/taibuivan/csemotors/internal/platform/config"
	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/migration"
	pgstore "github.com/taibuivan/csemotors/internal/platform/postgres"
	redisstore "github.com/taibuivan/csemotors/internal/platform/redis"
	"github.com/taibuivan/csemotors/internal/platform/sec"
	"github.com/taibuivan/csemotors/internal/session"
	"github.com/taibuivan/csemotors/internal/web"
	"github.com/taibuivan/csemotors/internal/web/view"
)

// seedClassifications mirrors the rows inserted by the initial migration.
var seedClassifications = []string{"custom", "sedan", "sport", "suv", "truck"}

func main() {
	// 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// 2. Configuration
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("addr", cfg.Addr()),
		slog.String("storage", cfg.StorageDriver),
	)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Bound connection attempts so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	var checks []web.HealthCheck

	// 3. Storage
	var (
		accountRepository   account.Repository
		inventoryRepository inventory.Repository
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.RequestTimeout, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		accountRepository = account.NewPostgresRepository(pool)
		inventoryRepository = inventory.NewPostgresRepository(pool)
		checks = append(checks, web.HealthCheck{
			Name:  "postgres",
			Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		})

	case config.StorageMemory:
		log.Warn("memory_storage_enabled", slog.String("note", "data is lost on restart"))
		accountRepository = account.NewMemoryRepository()
		inventoryRepository = inventory.NewMemoryRepository(seedClassifications...)
	}

	// 4. Session store
	var store session.Store
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.SessionTTL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		store = session.NewRedisStore(rdb)
		checks = append(checks, web.HealthCheck{
			Name:  "session_store",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	} else {
		memoryStore := session.NewMemoryStore()
		must(log, memoryStore.StartSweeper(rootCtx, cfg.SessionSweepSchedule, log), "start session sweeper")
		store = memoryStore
	}

	// 5. Security services
	hasher := sec.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency)

	tokens, err := sec.NewTokenService(cfg.AccessTokenSecret, constants.AuthIssuer, cfg.TokenTTL)
	must(log, err, "initialize token service")

	sessions, err := session.NewManager(store, session.Options{
		Secret:          cfg.SessionSecret,
		TTL:             cfg.SessionTTL,
		Secure:          cfg.IsProduction(),
		TokenCookieName: cfg.TokenCookieName,
		TokenTTL:        tokens.TTL(),
	})
	must(log, err, "initialize session manager")

	// 6. Domain wiring
	inventoryService := inventory.NewService(inventoryRepository, log)
	accountService := account.NewService(accountRepository, hasher, log)

	renderer, err := view.NewRenderer(web.Navigation(inventoryService), sessions, log)
	must(log, err, "parse templates")

	liveness, readiness := web.NewHealthHandlers(checks, log)

	server := web.NewServer(rootCtx, cfg, log, web.Dependencies{
		Sessions:  sessions,
		Verifier:  tokens,
		Renderer:  renderer,
		Liveness:  liveness,
		Readiness: readiness,
		Account:   account.NewHandler(accountService, sessions, tokens, renderer),
		Inventory: inventory.NewHandler(inventoryService, sessions, tokens, renderer),
	})

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	rootCancel()

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is only for startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
